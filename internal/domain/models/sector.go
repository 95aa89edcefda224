package models

import (
	"time"
)

// Sector is a top-level category owning folders and documents.
type Sector struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`                       // Symbolic icon name, e.g. "Users"
	Color     *string   `json:"color,omitempty" db:"color"`           // NULL = default palette
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	CreatedBy string    `json:"created_by" db:"created_by"`
}

// SectorUpdate carries a partial update. Nil fields are left unchanged.
type SectorUpdate struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

// IsZero reports whether the update would change nothing.
func (u SectorUpdate) IsZero() bool {
	return u.Name == nil && u.Icon == nil && u.Color == nil
}

// Apply copies the set fields onto s.
func (u SectorUpdate) Apply(s *Sector) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Icon != nil {
		s.Icon = *u.Icon
	}
	if u.Color != nil {
		s.Color = u.Color
	}
}
