package authstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

type fakeFetcher struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	err      error
	calls    int
}

func (f *fakeFetcher) Get(ctx context.Context, uid string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[uid], nil
}

func TestResolver_ResolveAndCache(t *testing.T) {
	f := &fakeFetcher{profiles: map[string]*models.Profile{
		"u1": {UID: "u1", FullName: "Alice", Role: "Admin"},
	}}
	r := NewResolver(f)
	ctx := context.Background()

	snap, err := r.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", snap.UID)
	assert.Equal(t, models.RoleAdmin, snap.Role, "role normalized")
	require.NotNil(t, snap.Profile)

	// second resolve hits the cache
	_, err = r.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestResolver_FetchFailureClearsPrivileges(t *testing.T) {
	f := &fakeFetcher{err: errors.New("store down")}
	r := NewResolver(f)

	snap, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", snap.UID, "identity survives")
	assert.Empty(t, snap.Role)
	assert.Nil(t, snap.Profile)

	// failures are not cached; recovery is picked up on the next resolve
	f.mu.Lock()
	f.err = nil
	f.profiles = map[string]*models.Profile{"u1": {UID: "u1", Role: "carer"}}
	f.mu.Unlock()

	snap, err = r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCarer, snap.Role)
}

func TestResolver_MissingProfile(t *testing.T) {
	f := &fakeFetcher{profiles: map[string]*models.Profile{}}
	r := NewResolver(f)

	snap, err := r.Resolve(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", snap.UID)
	assert.Empty(t, snap.Role)
	assert.Nil(t, snap.Profile)
}

func TestResolver_NotifyInvalidatesCache(t *testing.T) {
	f := &fakeFetcher{profiles: map[string]*models.Profile{
		"u1": {UID: "u1", Role: "admin"},
	}}
	r := NewResolver(f)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "u1")
	require.NoError(t, err)

	// unrelated collections do not invalidate
	r.Notify(database.FAQsCollection)
	_, err = r.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)

	r.Notify(database.UsersCollection)
	_, err = r.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestResolver_DisposeAndInit(t *testing.T) {
	f := &fakeFetcher{profiles: map[string]*models.Profile{
		"u1": {UID: "u1", Role: "admin"},
	}}
	r := NewResolver(f)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "u1")
	require.NoError(t, err)

	r.Dispose()
	_, err = r.Resolve(ctx, "u1")
	require.ErrorIs(t, err, ErrDisposed)

	r.Init()
	snap, err := r.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", snap.UID)
}

func TestResolver_Invalidate(t *testing.T) {
	f := &fakeFetcher{profiles: map[string]*models.Profile{
		"u1": {UID: "u1", Role: "admin"},
	}}
	r := NewResolver(f)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "u1")
	require.NoError(t, err)
	r.Invalidate("u1")
	_, err = r.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}
