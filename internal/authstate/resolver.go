// Package authstate resolves an authenticated identity into the caller's
// session snapshot: uid, effective role and profile. The resolver is
// constructed explicitly and passed where needed; nothing here is a
// package-level singleton.
package authstate

import (
	"context"
	"errors"
	"sync"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
)

// ErrDisposed is returned by Resolve after the resolver has been shut down.
var ErrDisposed = errors.New("auth state resolver disposed")

// NotifierFunc adapts a function to the change-notification interface the
// data services accept.
type NotifierFunc func(collection string)

func (f NotifierFunc) Notify(collection string) { f(collection) }

// ProfileFetcher is the slice of the profile service the resolver needs.
type ProfileFetcher interface {
	Get(ctx context.Context, uid string) (*models.Profile, error)
}

// Snapshot is the resolved auth state for one identity. When the profile
// could not be fetched, Role is empty and Profile nil while UID stays set:
// the caller remains signed in but holds no privileges.
type Snapshot struct {
	UID     string          `json:"uid"`
	Role    string          `json:"role,omitempty"`
	Profile *models.Profile `json:"profile,omitempty"`
}

// Resolver caches identity-to-snapshot resolutions. Cache entries are
// dropped whenever the users collection changes, so role edits and
// deactivations take effect on the next request.
type Resolver struct {
	fetch ProfileFetcher

	mu       sync.RWMutex
	cache    map[string]Snapshot
	gen      uint64
	disposed bool
}

func NewResolver(fetch ProfileFetcher) *Resolver {
	return &Resolver{fetch: fetch, cache: make(map[string]Snapshot)}
}

// Init prepares the resolver for use after a Dispose.
func (r *Resolver) Init() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]Snapshot)
	r.disposed = false
}

// Resolve returns the snapshot for the uid. A profile fetch failure is not
// an error to the caller: the uid is kept and privileges are cleared.
func (r *Resolver) Resolve(ctx context.Context, uid string) (Snapshot, error) {
	r.mu.RLock()
	if r.disposed {
		r.mu.RUnlock()
		return Snapshot{}, ErrDisposed
	}
	if snap, ok := r.cache[uid]; ok {
		r.mu.RUnlock()
		return snap, nil
	}
	gen := r.gen
	r.mu.RUnlock()

	snap := Snapshot{UID: uid}
	p, err := r.fetch.Get(ctx, uid)
	if err != nil {
		logger.Warn().Err(err).Str("uid", uid).Msg("profile fetch failed, clearing privileges")
	} else if p != nil {
		snap.Role = guard.NormalizeRole(p.Role)
		snap.Profile = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		// resolution finished after shutdown, discard it
		return Snapshot{}, ErrDisposed
	}
	if r.gen == gen && err == nil {
		r.cache[uid] = snap
	}
	return snap, nil
}

// Notify implements the change-notification interface of the data services.
// Any write to the users collection invalidates every cached snapshot.
func (r *Resolver) Notify(collection string) {
	if collection != database.UsersCollection {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]Snapshot)
	r.gen++
}

// Invalidate drops one identity's cached snapshot, e.g. after sign-out.
func (r *Resolver) Invalidate(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, uid)
}

// Dispose shuts the resolver down. In-flight resolutions are discarded and
// later Resolve calls fail until Init.
func (r *Resolver) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
	r.cache = make(map[string]Snapshot)
	r.gen++
}
