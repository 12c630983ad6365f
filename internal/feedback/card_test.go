package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

func TestNewCard_Placeholders(t *testing.T) {
	anon := NewCard(&models.Feedback{ID: "f1", Message: "great app", Rating: 5})
	assert.Equal(t, "Anonymous", anon.Name)
	assert.Equal(t, "—", anon.Email)
	assert.Equal(t, "great app", anon.Message)

	named := NewCard(&models.Feedback{
		ID: "f2", Name: "Carol", Email: "carol@example.com",
		Message: "ok", Rating: 3, Timestamp: time.Now().UTC(),
	})
	assert.Equal(t, "Carol", named.Name)
	assert.Equal(t, "carol@example.com", named.Email)
}
