package models

import (
	"time"
)

// Folder is a tree node scoped to exactly one sector. A folder's parent,
// when present, belongs to the same sector.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	SectorID  string    `json:"sector_id" db:"sector_id"`
	ParentID  *string   `json:"parent_folder_id,omitempty" db:"parent_id"` // NULL = sector root
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	CreatedBy string    `json:"created_by" db:"created_by"`
}

// FolderUpdate carries a partial update. Only the name is mutable.
type FolderUpdate struct {
	Name *string `json:"name,omitempty"`
}

func (u FolderUpdate) IsZero() bool {
	return u.Name == nil
}

func (u FolderUpdate) Apply(f *Folder) {
	if u.Name != nil {
		f.Name = *u.Name
	}
}
