package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

func TestService_FAQLifecycle(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	f, err := svc.CreateFAQ(ctx, "  How do I reset my password?  ", "Use the reset link.")
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "How do I reset my password?", f.Question, "whitespace trimmed")

	require.NoError(t, svc.UpdateFAQ(ctx, f.ID, "How do I reset?", "Ask an admin."))
	faqs, err := svc.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Ask an admin.", faqs[0].Answer)

	require.NoError(t, svc.DeleteFAQ(ctx, f.ID))
	faqs, err = svc.ListFAQs(ctx)
	require.NoError(t, err)
	assert.Empty(t, faqs)
}

func TestService_FAQValidation(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateFAQ(ctx, "", "answer")
	require.ErrorIs(t, err, ErrEmptyFAQ)
	_, err = svc.CreateFAQ(ctx, "question", "   ")
	require.ErrorIs(t, err, ErrEmptyFAQ)

	require.ErrorIs(t, svc.UpdateFAQ(ctx, "any", "q", ""), ErrEmptyFAQ)
	require.ErrorIs(t, svc.UpdateFAQ(ctx, "missing", "q", "a"), ErrNotFound)
	require.ErrorIs(t, svc.DeleteFAQ(ctx, "missing"), ErrNotFound)
}

func TestService_ListFeedbackNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.AddFeedback(&models.Feedback{ID: "old", Message: "meh", Rating: 3, Timestamp: time.Now().UTC().Add(-time.Hour)})
	repo.AddFeedback(&models.Feedback{ID: "new", Message: "great", Rating: 5, Timestamp: time.Now().UTC()})

	list, err := svc.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
}
