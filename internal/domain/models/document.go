package models

import (
	"fmt"
	"time"
)

// DocumentType classifies document content for display purposes.
type DocumentType string

const (
	DocumentTypePDF   DocumentType = "pdf"
	DocumentTypeImage DocumentType = "image"
	DocumentTypeOther DocumentType = "other"
)

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypePDF, DocumentTypeImage, DocumentTypeOther:
		return true
	}
	return false
}

// DocumentTypeForMime maps a MIME type onto the closed classification set.
func DocumentTypeForMime(mimeType string) DocumentType {
	switch {
	case mimeType == "application/pdf":
		return DocumentTypePDF
	case len(mimeType) > 6 && mimeType[:6] == "image/":
		return DocumentTypeImage
	default:
		return DocumentTypeOther
	}
}

// Document is a stored file plus metadata, located in exactly one folder.
// SectorID duplicates the owning folder's sector for query convenience and
// must always match it.
type Document struct {
	ID          string       `json:"id" db:"id"`
	FolderID    string       `json:"folder_id" db:"folder_id"`
	SectorID    string       `json:"sector_id" db:"sector_id"`
	Name        string       `json:"name" db:"name"`
	Description *string      `json:"description,omitempty" db:"description"`
	Type        DocumentType `json:"type" db:"type"`
	File        FileRef      `json:"file" db:"file_ref"`
	FileName    string       `json:"file_name" db:"file_name"`
	FileSize    int64        `json:"file_size" db:"file_size"`
	MimeType    string       `json:"mime_type" db:"mime_type"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	CreatedBy   string       `json:"created_by" db:"created_by"`
}

// DocumentUpdate carries a partial update. File content and type are
// immutable after creation; only name and description can change.
type DocumentUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (u DocumentUpdate) IsZero() bool {
	return u.Name == nil && u.Description == nil
}

func (u DocumentUpdate) Apply(d *Document) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Description != nil {
		d.Description = u.Description
	}
}

// FileMetadata describes an uploaded file for blob storage.
type FileMetadata struct {
	FileName string
	MimeType string
	Size     int64
}

func (m FileMetadata) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", m.FileName, m.MimeType, m.Size)
}
