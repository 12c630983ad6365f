package users

import (
	"context"
	"fmt"
	"time"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/metrics"
)

// Notifier receives change notifications after profile writes so live views
// can push fresh snapshots.
type Notifier interface {
	Notify(collection string)
}

// Service owns profile documents in the users collection.
type Service struct {
	repo     ProfileRepository
	notifier Notifier
}

// NewService creates the profile service. notifier may be nil.
func NewService(repo ProfileRepository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) notify() {
	if s.notifier != nil {
		s.notifier.Notify(database.UsersCollection)
	}
}

// Get returns the profile for the uid, or nil when none exists.
func (s *Service) Get(ctx context.Context, uid string) (*models.Profile, error) {
	return s.repo.GetByUID(ctx, uid)
}

// List returns all profiles, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Profile, error) {
	return s.repo.List(ctx)
}

// Provision creates a profile document keyed by the identity uid.
func (s *Service) Provision(ctx context.Context, uid, fullName, email, role string, active bool) (*models.Profile, error) {
	p := &models.Profile{
		UID:       uid,
		FullName:  fullName,
		Email:     email,
		Role:      guard.NormalizeRole(role),
		Active:    &active,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		metrics.ProfileWrites.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create profile: %w", err)
	}
	metrics.ProfileWrites.WithLabelValues("create", "ok").Inc()
	s.notify()
	return p, nil
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched in the stored document.
type ProfileUpdate struct {
	FullName      *string `json:"fullName"`
	Address       *string `json:"address"`
	ContactNumber *string `json:"contactNumber"`
}

// UpdateProfile applies a field-level update to the profile.
func (s *Service) UpdateProfile(ctx context.Context, uid string, upd ProfileUpdate) error {
	fields := map[string]interface{}{}
	if upd.FullName != nil {
		fields["fullName"] = *upd.FullName
	}
	if upd.Address != nil {
		fields["address"] = *upd.Address
	}
	if upd.ContactNumber != nil {
		fields["contactNumber"] = *upd.ContactNumber
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.repo.UpdateFields(ctx, uid, fields); err != nil {
		metrics.ProfileWrites.WithLabelValues("update", "error").Inc()
		return err
	}
	metrics.ProfileWrites.WithLabelValues("update", "ok").Inc()
	s.notify()
	return nil
}

// GetActive resolves the stored active flag for the uid. It reports
// exists=false when the profile document is missing.
func (s *Service) GetActive(ctx context.Context, uid string) (bool, bool, error) {
	p, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return false, false, err
	}
	if p == nil {
		return false, false, nil
	}
	return p.IsActive(), true, nil
}

// SetActive writes only the active flag on the profile document.
func (s *Service) SetActive(ctx context.Context, uid string, active bool) error {
	if err := s.repo.SetActive(ctx, uid, active); err != nil {
		metrics.ProfileWrites.WithLabelValues("set_active", "error").Inc()
		return err
	}
	metrics.ProfileWrites.WithLabelValues("set_active", "ok").Inc()
	s.notify()
	return nil
}

// Delete removes the profile document.
func (s *Service) Delete(ctx context.Context, uid string) error {
	if err := s.repo.Delete(ctx, uid); err != nil {
		metrics.ProfileWrites.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.ProfileWrites.WithLabelValues("delete", "ok").Inc()
	s.notify()
	return nil
}

// Analytics summarizes the user base for the dashboard. Admin accounts are
// excluded from the total.
type Analytics struct {
	Carers      int64 `json:"carers"`
	Impaired    int64 `json:"impaired"`
	NewThisWeek int64 `json:"newThisWeek"`
	Total       int64 `json:"total"`
}

func (s *Service) DashboardAnalytics(ctx context.Context) (*Analytics, error) {
	carers, err := s.repo.CountByRole(ctx, models.RoleCarer)
	if err != nil {
		return nil, err
	}
	impaired, err := s.repo.CountByRole(ctx, models.RoleImpaired)
	if err != nil {
		return nil, err
	}
	week, err := s.repo.CountCreatedSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	return &Analytics{
		Carers:      carers,
		Impaired:    impaired,
		NewThisWeek: week,
		Total:       carers + impaired,
	}, nil
}
