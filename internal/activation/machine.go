// Package activation implements the account activation state machine behind
// the manage-user dialog: resolving an unknown active flag, confirm-gated
// deactivation and reactivation, with field-level writes against the profile
// store.
package activation

import (
	"context"
	"errors"

	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
)

// State of a target account's active flag as known to the dialog.
type State int

const (
	// StateUnknown is the transient state before the flag has been
	// resolved, e.g. when the caller supplied a partial record.
	StateUnknown State = iota
	StateActive
	StateInactive
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	}
	return "unknown"
}

var (
	// ErrConfirmationRequired is returned when Deactivate is invoked
	// without an explicit operator confirmation. No write occurs.
	ErrConfirmationRequired = errors.New("deactivation requires confirmation")
	// ErrNotPermitted is returned when the acting admin fails the
	// role/active policy for the target. No write occurs.
	ErrNotPermitted = errors.New("acting account may not manage this user")
	// ErrPermissionDenied is the store-level denial. Handlers surface it
	// with a message telling the operator their own account lacks the
	// required role.
	ErrPermissionDenied = errors.New("permission denied by profile store")
)

// FlagStore is the slice of the profile store the machine touches. SetActive
// must write only the active field, never the whole document.
type FlagStore interface {
	GetActive(ctx context.Context, uid string) (active bool, exists bool, err error)
	SetActive(ctx context.Context, uid string, active bool) error
}

// Actor identifies the admin operating the dialog.
type Actor struct {
	UID  string
	Role string
}

// Hooks are fired after a successful transition so the embedding page can
// refresh its list or close the dialog. Either may be nil.
type Hooks struct {
	OnActivated   func(uid string)
	OnDeactivated func(uid string)
}

// Machine tracks one target account's activation state.
type Machine struct {
	store      FlagStore
	targetUID  string
	targetRole string
	state      State
	hooks      Hooks
}

// NewMachine builds a machine for the target account. known carries the
// caller-supplied active flag when the opening record included one; nil
// leaves the machine in StateUnknown until Resolve.
func NewMachine(store FlagStore, targetUID, targetRole string, known *bool, hooks Hooks) *Machine {
	m := &Machine{store: store, targetUID: targetUID, targetRole: targetRole, state: StateUnknown, hooks: hooks}
	if known != nil {
		if *known {
			m.state = StateActive
		} else {
			m.state = StateInactive
		}
	}
	return m
}

func (m *Machine) State() State { return m.state }

// Resolve fetches the active flag when it is still unknown. A missing
// document, a missing flag, or a fetch failure all resolve to inactive; a
// completed Resolve never leaves the machine in StateUnknown.
func (m *Machine) Resolve(ctx context.Context) (State, error) {
	if m.state != StateUnknown {
		return m.state, nil
	}
	active, exists, err := m.store.GetActive(ctx, m.targetUID)
	if err != nil || !exists || !active {
		m.state = StateInactive
		return m.state, err
	}
	m.state = StateActive
	return m.state, nil
}

// Deactivate transitions Active → Inactive. It requires the operator's
// explicit confirmation and the acting admin to pass CanManage. Already
// inactive targets are a no-op. On write failure the state is unchanged.
func (m *Machine) Deactivate(ctx context.Context, actor Actor, confirmed bool) error {
	if m.state == StateInactive {
		return nil
	}
	if !guard.CanManage(actor.Role, actor.UID, m.targetUID, m.targetRole) {
		return ErrNotPermitted
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := m.store.SetActive(ctx, m.targetUID, false); err != nil {
		return err
	}
	m.state = StateInactive
	if m.hooks.OnDeactivated != nil {
		m.hooks.OnDeactivated(m.targetUID)
	}
	return nil
}

// Reactivate transitions Inactive → Active; no confirmation is required.
// Already active targets are a no-op.
func (m *Machine) Reactivate(ctx context.Context, actor Actor) error {
	if m.state == StateActive {
		return nil
	}
	if !guard.CanManage(actor.Role, actor.UID, m.targetUID, m.targetRole) {
		return ErrNotPermitted
	}
	if err := m.store.SetActive(ctx, m.targetUID, true); err != nil {
		return err
	}
	m.state = StateActive
	if m.hooks.OnActivated != nil {
		m.hooks.OnActivated(m.targetUID)
	}
	return nil
}
