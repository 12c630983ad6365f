package models

import "time"

// Role values stored on a profile document. Comparisons are always performed
// through guard.NormalizeRole, never against raw document strings.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
	RoleCarer      = "carer"
	RoleImpaired   = "impaired"
)

// Profile is the per-person document in the "users" collection. The document
// id equals the identity subject (uid) so exactly one profile exists per
// credential record.
type Profile struct {
	UID           string    `bson:"_id" json:"uid"`
	FullName      string    `bson:"fullName" json:"fullName"`
	Email         string    `bson:"email" json:"email"`
	Address       string    `bson:"address,omitempty" json:"address,omitempty"`
	ContactNumber string    `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	Role          string    `bson:"role" json:"role"`
	Active        *bool     `bson:"active,omitempty" json:"active,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// IsActive treats anything but a stored literal true as inactive.
func (p *Profile) IsActive() bool {
	return p.Active != nil && *p.Active
}

// Credential is the identity-provider record backing a profile.
type Credential struct {
	UID          string    `bson:"_id" json:"uid"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
