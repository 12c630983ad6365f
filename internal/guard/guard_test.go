package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanLogin(t *testing.T) {
	cases := []struct {
		name   string
		role   string
		active bool
		want   bool
	}{
		{"admin active", "admin", true, true},
		{"superadmin active", "superadmin", true, true},
		{"mixed case role", " Admin ", true, true},
		{"uppercase superadmin", "SUPERADMIN", true, true},
		{"admin inactive", "admin", false, false},
		{"superadmin inactive", "superadmin", false, false},
		{"carer active", "carer", true, false},
		{"impaired active", "impaired", true, false},
		{"unknown role", "manager", true, false},
		{"empty role", "", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanLogin(tc.role, tc.active))
		})
	}
}

func TestCanManage_Irreflexive(t *testing.T) {
	// never true when the target is the actor, regardless of role
	for _, role := range []string{"superadmin", "admin", "carer", ""} {
		assert.False(t, CanManage(role, "u1", "u1", "carer"), "role %q", role)
	}
	// missing actor id manages nothing
	assert.False(t, CanManage("superadmin", "", "u2", "carer"))
}

func TestCanManage_Superadmin(t *testing.T) {
	for _, target := range []string{"admin", "superadmin", "carer", "impaired", "weird"} {
		assert.True(t, CanManage("superadmin", "u1", "u2", target), "target %q", target)
	}
}

func TestCanManage_Admin(t *testing.T) {
	assert.True(t, CanManage("admin", "u1", "u2", "carer"))
	assert.True(t, CanManage("admin", "u1", "u2", "impaired"))
	assert.False(t, CanManage("admin", "u1", "u2", "admin"))
	assert.False(t, CanManage("admin", "u1", "u2", "superadmin"))
	assert.False(t, CanManage("admin", "u1", "u2", ""))
}

func TestCanManage_CaseInsensitive(t *testing.T) {
	// mixed-case acting and target roles must still match
	assert.True(t, CanManage("Admin", "u1", "u2", "Carer"))
	assert.True(t, CanManage(" SUPERADMIN ", "u1", "u2", "Admin"))
	assert.False(t, CanManage("Carer", "u1", "u2", "Impaired"))
}

func TestCanSeeAddAdminControl(t *testing.T) {
	assert.True(t, CanSeeAddAdminControl("superadmin"))
	assert.True(t, CanSeeAddAdminControl(" SuperAdmin "))
	assert.False(t, CanSeeAddAdminControl("admin"))
	assert.False(t, CanSeeAddAdminControl(""))
}
