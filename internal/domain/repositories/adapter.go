package repositories

import (
	"context"
	"io"

	"arquivo/internal/domain/models"
)

// SectorRepository persists the sector collection.
type SectorRepository interface {
	FetchSectors(ctx context.Context) ([]models.Sector, error)
	InsertSector(ctx context.Context, sector *models.Sector) error
	UpdateSector(ctx context.Context, id string, upd models.SectorUpdate) error
	DeleteSector(ctx context.Context, id string) error
}

// FolderRepository persists the folder collection.
type FolderRepository interface {
	FetchFolders(ctx context.Context) ([]models.Folder, error)
	InsertFolder(ctx context.Context, folder *models.Folder) error
	UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) error
	DeleteFolder(ctx context.Context, id string) error
}

// DocumentRepository persists document records (not their file content).
type DocumentRepository interface {
	FetchDocuments(ctx context.Context) ([]models.Document, error)
	InsertDocument(ctx context.Context, doc *models.Document) error
	UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate) error
	DeleteDocument(ctx context.Context, id string) error
}

// Adapter is the persistence contract the entity store runs against.
// Update and Delete of an absent id return domain.ErrNotFound; the store
// converts that into idempotent no-op semantics.
type Adapter interface {
	SectorRepository
	FolderRepository
	DocumentRepository

	// Cascades reports whether deleting a sector or folder row also removes
	// dependent rows backend-side. When false the entity store deletes every
	// dependent folder and document row itself.
	Cascades() bool

	Close() error
}

// BlobStore stores and resolves document file content. Release of an
// unknown reference is a no-op: delete paths must be safe to retry.
type BlobStore interface {
	// Store writes the content and returns a reference to it. Durable
	// backends return durable locators; session-local backends return
	// transient references that die with the process.
	Store(ctx context.Context, content io.Reader, meta models.FileMetadata) (models.FileRef, error)

	// Open resolves a reference for reading. An unresolvable reference
	// (expired transient, missing object) yields domain.ErrContentUnavailable.
	Open(ctx context.Context, ref models.FileRef) (io.ReadCloser, error)

	// Release deletes the stored content behind ref.
	Release(ctx context.Context, ref models.FileRef) error
}
