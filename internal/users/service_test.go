package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

type countingNotifier struct{ n int }

func (c *countingNotifier) Notify(collection string) { c.n++ }

func TestService_ProvisionAndGet(t *testing.T) {
	repo := NewMemoryProfileRepository()
	notifier := &countingNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	p, err := svc.Provision(ctx, "u1", "Alice Admin", "alice@example.com", "Admin", true)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role, "role is normalized on write")
	assert.True(t, p.IsActive())
	assert.Equal(t, 1, notifier.n)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestService_UpdateProfile_FieldLevel(t *testing.T) {
	repo := NewMemoryProfileRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Provision(ctx, "u1", "Alice", "a@example.com", "carer", true)
	require.NoError(t, err)

	name := "Alice B"
	require.NoError(t, svc.UpdateProfile(ctx, "u1", ProfileUpdate{FullName: &name}))

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.FullName)
	assert.Equal(t, "a@example.com", got.Email, "untouched fields survive")

	// empty update is a no-op, not an error
	require.NoError(t, svc.UpdateProfile(ctx, "u1", ProfileUpdate{}))

	addr := "12 Main St"
	require.ErrorIs(t, svc.UpdateProfile(ctx, "missing", ProfileUpdate{Address: &addr}), ErrNotFound)
}

func TestService_ActiveFlag(t *testing.T) {
	repo := NewMemoryProfileRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Provision(ctx, "u1", "Alice", "a@example.com", "carer", true)
	require.NoError(t, err)

	active, exists, err := svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, active)

	require.NoError(t, svc.SetActive(ctx, "u1", false))
	active, exists, err = svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.False(t, active)

	_, exists, err = svc.GetActive(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_ListNewestFirst(t *testing.T) {
	repo := NewMemoryProfileRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	old := &models.Profile{UID: "old", Role: models.RoleCarer, CreatedAt: time.Now().UTC().Add(-time.Hour)}
	recent := &models.Profile{UID: "recent", Role: models.RoleCarer, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "recent", list[0].UID)
	assert.Equal(t, "old", list[1].UID)
}

func TestService_DashboardAnalytics(t *testing.T) {
	repo := NewMemoryProfileRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	mk := func(uid, role string, age time.Duration) {
		require.NoError(t, repo.Create(ctx, &models.Profile{
			UID: uid, Role: role, CreatedAt: time.Now().UTC().Add(-age),
		}))
	}
	mk("c1", models.RoleCarer, time.Hour)
	mk("c2", models.RoleCarer, 10*24*time.Hour)
	mk("i1", models.RoleImpaired, time.Hour)
	mk("a1", models.RoleAdmin, time.Hour)

	a, err := svc.DashboardAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.Carers)
	assert.Equal(t, int64(1), a.Impaired)
	assert.Equal(t, int64(3), a.NewThisWeek, "admin counts toward recency, not totals")
	assert.Equal(t, int64(3), a.Total, "admins excluded from total")
}

func TestTableRow_Placeholders(t *testing.T) {
	p := &models.Profile{UID: "u1", FullName: "Alice", Email: "a@example.com", Role: models.RoleCarer}
	row := NewTableRow(p)
	assert.Equal(t, "N/A", row.Address)
	assert.Equal(t, "N/A", row.ContactNumber)
	assert.False(t, row.Active, "missing flag renders inactive")
	assert.Equal(t, "Alice a@example.com carer N/A N/A", row.SearchText())
}

func TestTableRow_SearchTextCoversAllColumns(t *testing.T) {
	p := &models.Profile{
		UID: "u1", FullName: "Bob Smith", Email: "bob@example.com",
		Address: "12 Main St", ContactNumber: "555-0101", Role: models.RoleCarer,
	}
	hay := NewTableRow(p).SearchText()
	for _, want := range []string{"Bob Smith", "bob@example.com", "carer", "12 Main St", "555-0101"} {
		assert.Contains(t, hay, want)
	}
}
