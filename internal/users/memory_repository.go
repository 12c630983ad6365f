package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// MemoryProfileRepository is an in-memory ProfileRepository used in tests.
type MemoryProfileRepository struct {
	mu    sync.RWMutex
	byUID map[string]*models.Profile
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{byUID: make(map[string]*models.Profile)}
}

func (r *MemoryProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.byUID[cp.UID] = &cp
	return nil
}

func (r *MemoryProfileRepository) GetByUID(ctx context.Context, uid string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byUID[uid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Profile, 0, len(r.byUID))
	for _, p := range r.byUID {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryProfileRepository) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byUID[uid]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "fullName":
			p.FullName, _ = v.(string)
		case "address":
			p.Address, _ = v.(string)
		case "contactNumber":
			p.ContactNumber, _ = v.(string)
		case "active":
			b, _ := v.(bool)
			p.Active = &b
		}
	}
	return nil
}

func (r *MemoryProfileRepository) SetActive(ctx context.Context, uid string, active bool) error {
	return r.UpdateFields(ctx, uid, map[string]interface{}{"active": active})
}

func (r *MemoryProfileRepository) Delete(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUID[uid]; !ok {
		return ErrNotFound
	}
	delete(r.byUID, uid)
	return nil
}

func (r *MemoryProfileRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	role = guard.NormalizeRole(role)
	for _, p := range r.byUID {
		if guard.NormalizeRole(p.Role) == role {
			n++
		}
	}
	return n, nil
}

func (r *MemoryProfileRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, p := range r.byUID {
		if !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}
