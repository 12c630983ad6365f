package feedback

import (
	"context"
	"errors"
	"strings"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// ErrEmptyFAQ is returned when a question or answer is blank after trimming.
var ErrEmptyFAQ = errors.New("faq question and answer are required")

// Notifier mirrors the users-package notifier for live views.
type Notifier interface {
	Notify(collection string)
}

// Service exposes feedback reads and FAQ management.
type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) notify() {
	if s.notifier != nil {
		s.notifier.Notify(database.FAQsCollection)
	}
}

func (s *Service) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	return s.repo.ListFeedback(ctx)
}

func (s *Service) ListFAQs(ctx context.Context) ([]*models.FAQ, error) {
	return s.repo.ListFAQs(ctx)
}

func (s *Service) CreateFAQ(ctx context.Context, question, answer string) (*models.FAQ, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, ErrEmptyFAQ
	}
	f := &models.FAQ{Question: question, Answer: answer}
	if err := s.repo.CreateFAQ(ctx, f); err != nil {
		return nil, err
	}
	s.notify()
	return f, nil
}

func (s *Service) UpdateFAQ(ctx context.Context, id, question, answer string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return ErrEmptyFAQ
	}
	if err := s.repo.UpdateFAQ(ctx, id, question, answer); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Service) DeleteFAQ(ctx context.Context, id string) error {
	if err := s.repo.DeleteFAQ(ctx, id); err != nil {
		return err
	}
	s.notify()
	return nil
}
