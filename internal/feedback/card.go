package feedback

import (
	"time"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// Placeholders for the optional sender fields on a feedback card.
const (
	anonymousName = "Anonymous"
	noEmail       = "—"
)

// Card is the feedback-page projection of a submission. Optional sender
// fields are replaced with placeholders here so every consumer renders
// them the same way.
type Card struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCard projects a submission into its card.
func NewCard(f *models.Feedback) Card {
	card := Card{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Message:   f.Message,
		Rating:    f.Rating,
		Timestamp: f.Timestamp,
	}
	if card.Name == "" {
		card.Name = anonymousName
	}
	if card.Email == "" {
		card.Email = noEmail
	}
	return card
}

// NewCards projects a snapshot, preserving order.
func NewCards(list []*models.Feedback) []Card {
	cards := make([]Card, 0, len(list))
	for _, f := range list {
		cards = append(cards, NewCard(f))
	}
	return cards
}
