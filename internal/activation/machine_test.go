package activation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	active    bool
	exists    bool
	getErr    error
	setErr    error
	setCalls  []bool
	getCalled bool
}

func (f *fakeStore) GetActive(ctx context.Context, uid string) (bool, bool, error) {
	f.getCalled = true
	return f.active, f.exists, f.getErr
}

func (f *fakeStore) SetActive(ctx context.Context, uid string, active bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, active)
	f.active = active
	return nil
}

func boolPtr(b bool) *bool { return &b }

var superadmin = Actor{UID: "actor-1", Role: "superadmin"}

func TestResolveFromStore(t *testing.T) {
	ctx := context.Background()

	t.Run("existing active doc", func(t *testing.T) {
		m := NewMachine(&fakeStore{active: true, exists: true}, "u1", "carer", nil, Hooks{})
		require.Equal(t, StateUnknown, m.State())
		st, err := m.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateActive, st)
	})

	t.Run("missing active flag resolves inactive", func(t *testing.T) {
		// profile created with active unset must never resolve to Active
		m := NewMachine(&fakeStore{active: false, exists: true}, "u1", "carer", nil, Hooks{})
		st, err := m.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateInactive, st)
	})

	t.Run("missing document resolves inactive", func(t *testing.T) {
		m := NewMachine(&fakeStore{exists: false}, "u1", "carer", nil, Hooks{})
		st, err := m.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateInactive, st)
	})

	t.Run("fetch failure resolves inactive, never unknown", func(t *testing.T) {
		m := NewMachine(&fakeStore{getErr: errors.New("network")}, "u1", "carer", nil, Hooks{})
		st, err := m.Resolve(ctx)
		assert.Error(t, err)
		assert.Equal(t, StateInactive, st)
		assert.NotEqual(t, StateUnknown, m.State())
	})

	t.Run("known flag skips the fetch", func(t *testing.T) {
		st := &fakeStore{}
		m := NewMachine(st, "u1", "carer", boolPtr(true), Hooks{})
		got, err := m.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateActive, got)
		assert.False(t, st.getCalled)
	})
}

func TestDeactivateRequiresConfirmation(t *testing.T) {
	st := &fakeStore{}
	m := NewMachine(st, "u1", "carer", boolPtr(true), Hooks{})

	err := m.Deactivate(context.Background(), superadmin, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Empty(t, st.setCalls, "no write without confirmation")
	assert.Equal(t, StateActive, m.State())
}

func TestDeactivateAndHooks(t *testing.T) {
	st := &fakeStore{}
	var deactivated string
	m := NewMachine(st, "u1", "carer", boolPtr(true), Hooks{
		OnDeactivated: func(uid string) { deactivated = uid },
	})

	require.NoError(t, m.Deactivate(context.Background(), superadmin, true))
	assert.Equal(t, StateInactive, m.State())
	assert.Equal(t, []bool{false}, st.setCalls)
	assert.Equal(t, "u1", deactivated)
}

func TestReactivate(t *testing.T) {
	st := &fakeStore{}
	var activated string
	m := NewMachine(st, "u1", "carer", boolPtr(false), Hooks{
		OnActivated: func(uid string) { activated = uid },
	})

	// no confirmation needed for reactivation
	require.NoError(t, m.Reactivate(context.Background(), superadmin))
	assert.Equal(t, StateActive, m.State())
	assert.Equal(t, "u1", activated)

	// already active: no further write
	require.NoError(t, m.Reactivate(context.Background(), superadmin))
	assert.Equal(t, []bool{true}, st.setCalls)
}

func TestGuardGating(t *testing.T) {
	ctx := context.Background()

	t.Run("admin cannot manage admin", func(t *testing.T) {
		st := &fakeStore{}
		m := NewMachine(st, "u1", "admin", boolPtr(true), Hooks{})
		err := m.Deactivate(ctx, Actor{UID: "actor-1", Role: "admin"}, true)
		assert.ErrorIs(t, err, ErrNotPermitted)
		assert.Empty(t, st.setCalls)
	})

	t.Run("mixed-case roles still pass", func(t *testing.T) {
		st := &fakeStore{}
		m := NewMachine(st, "u1", "Carer", boolPtr(true), Hooks{})
		assert.NoError(t, m.Deactivate(ctx, Actor{UID: "actor-1", Role: "Admin"}, true))
	})

	t.Run("self management refused", func(t *testing.T) {
		st := &fakeStore{}
		m := NewMachine(st, "actor-1", "superadmin", boolPtr(true), Hooks{})
		err := m.Deactivate(ctx, superadmin, true)
		assert.ErrorIs(t, err, ErrNotPermitted)
	})
}

func TestWriteFailureKeepsState(t *testing.T) {
	st := &fakeStore{setErr: ErrPermissionDenied}
	var fired bool
	m := NewMachine(st, "u1", "carer", boolPtr(true), Hooks{
		OnDeactivated: func(string) { fired = true },
	})

	err := m.Deactivate(context.Background(), superadmin, true)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, StateActive, m.State(), "no transition on failure")
	assert.False(t, fired)
}
