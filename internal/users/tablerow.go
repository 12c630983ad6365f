package users

import (
	"time"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// placeholder shown for optional fields the person never filled in.
const placeholder = "N/A"

// TableRow is the list-view projection of a profile. Optional fields are
// replaced with a placeholder here so every consumer renders them the same.
type TableRow struct {
	UID           string    `json:"uid"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contactNumber"`
	Role          string    `json:"role"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewTableRow projects a profile into its table row.
func NewTableRow(p *models.Profile) TableRow {
	row := TableRow{
		UID:           p.UID,
		FullName:      orPlaceholder(p.FullName),
		Email:         orPlaceholder(p.Email),
		Address:       orPlaceholder(p.Address),
		ContactNumber: orPlaceholder(p.ContactNumber),
		Role:          p.Role,
		Active:        p.IsActive(),
		CreatedAt:     p.CreatedAt,
	}
	return row
}

// NewTableRows projects a snapshot, preserving order.
func NewTableRows(profiles []*models.Profile) []TableRow {
	rows := make([]TableRow, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, NewTableRow(p))
	}
	return rows
}

// SearchText is the haystack the list-view search matches against: name,
// email, role, address and contact number joined in row order.
func (r TableRow) SearchText() string {
	return r.FullName + " " + r.Email + " " + r.Role + " " + r.Address + " " + r.ContactNumber
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
