package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

// CreateDocumentRequest carries the upload payload for AddDocument:
// file content plus the metadata that goes on the record.
type CreateDocumentRequest struct {
	SectorID    string
	FolderID    string
	Name        string
	Description *string
	Type        models.DocumentType
	Content     io.Reader
	FileName    string
	FileSize    int64
	MimeType    string
}

func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SectorID, validation.Required),
		validation.Field(&r.FolderID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.FileName, validation.Required),
		validation.Field(&r.FileSize, validation.Min(0)),
	)
}

// AddDocument stores the file content, then creates and persists the
// document record referencing it. The owning folder must exist and belong
// to the requested sector. When the record insert fails the freshly stored
// content is released again so no orphan blob is left behind.
func (s *Store) AddDocument(ctx context.Context, req CreateDocumentRequest) (*models.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrValidation, req.Type)
	}
	if req.Content == nil {
		return nil, fmt.Errorf("%w: missing file content", domain.ErrValidation)
	}

	s.mu.RLock()
	folder := s.folders[req.FolderID]
	s.mu.RUnlock()

	if folder == nil {
		return nil, fmt.Errorf("folder %s: %w", req.FolderID, domain.ErrInvalidReference)
	}
	if folder.SectorID != req.SectorID {
		return nil, fmt.Errorf("folder %s is in sector %s: %w",
			folder.ID, folder.SectorID, domain.ErrInvalidReference)
	}

	ref, err := s.blobs.Store(ctx, req.Content, models.FileMetadata{
		FileName: req.FileName,
		MimeType: req.MimeType,
		Size:     req.FileSize,
	})
	if err != nil {
		return nil, fmt.Errorf("store file content: %w", err)
	}

	doc := &models.Document{
		ID:          uuid.NewString(),
		FolderID:    req.FolderID,
		SectorID:    req.SectorID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		File:        ref,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		MimeType:    req.MimeType,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   s.user,
	}

	if err := s.adapter.InsertDocument(ctx, doc); err != nil {
		s.releaseContent(ctx, doc)
		return nil, fmt.Errorf("insert document: %w", err)
	}

	s.mu.Lock()
	s.documents[doc.ID] = doc
	s.mu.Unlock()

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"folder_id", doc.FolderID,
		"sector_id", doc.SectorID,
		"type", doc.Type,
		"file_size", doc.FileSize,
	)

	out := *doc
	return &out, nil
}

// UpdateDocument mutates name and description only; content and type are
// immutable after creation. Unknown ids are a silent no-op.
func (s *Store) UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate) error {
	if upd.IsZero() {
		return nil
	}

	s.mu.RLock()
	_, ok := s.documents[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := s.adapter.UpdateDocument(ctx, id, upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("update document: %w", err)
	}

	s.mu.Lock()
	if doc, ok := s.documents[id]; ok {
		upd.Apply(doc)
	}
	s.mu.Unlock()

	s.logger.Info("document updated", "id", id)
	return nil
}

// DeleteDocument releases the stored file content, deletes the record, and
// removes it from memory. Idempotent on a missing id.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.RLock()
	doc, ok := s.documents[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	s.releaseContent(ctx, doc)

	if err := s.adapter.DeleteDocument(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete document: %w", err)
		}
	}

	s.mu.Lock()
	delete(s.documents, id)
	s.mu.Unlock()

	s.logger.Info("document deleted", "id", id)
	return nil
}

// DocumentsByFolder lists the documents directly in a folder, newest first.
func (s *Store) DocumentsByFolder(folderID string) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Document{}
	for _, d := range s.documents {
		if d.FolderID == folderID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Document returns one document by id.
func (s *Store) Document(id string) (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok {
		return models.Document{}, false
	}
	return *d, true
}

// Sector returns one sector by id.
func (s *Store) Sector(id string) (models.Sector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sectors[id]
	if !ok {
		return models.Sector{}, false
	}
	return *sec, true
}

// Folder returns one folder by id.
func (s *Store) Folder(id string) (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folders[id]
	if !ok {
		return models.Folder{}, false
	}
	return *f, true
}

// OpenDocument resolves a document's file content for reading. A reference
// that no longer resolves yields domain.ErrContentUnavailable.
func (s *Store) OpenDocument(ctx context.Context, id string) (io.ReadCloser, error) {
	s.mu.RLock()
	doc, ok := s.documents[id]
	var ref models.FileRef
	if ok {
		ref = doc.File
	}
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	if ref.IsZero() {
		return nil, fmt.Errorf("document %s has no content: %w", id, domain.ErrContentUnavailable)
	}
	return s.blobs.Open(ctx, ref)
}
