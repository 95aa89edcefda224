package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

// MaxNameLength bounds display names for all three entity kinds.
const MaxNameLength = 120

// CreateSectorRequest carries the caller-supplied fields for AddSector.
type CreateSectorRequest struct {
	Name  string  `json:"name"`
	Icon  string  `json:"icon"`
	Color *string `json:"color,omitempty"`
}

func (r CreateSectorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Icon, validation.Required, validation.Length(1, 64)),
	)
}

// AddSector creates a sector, persists it, then inserts it in memory.
// On persistence failure nothing is added in memory.
func (s *Store) AddSector(ctx context.Context, req CreateSectorRequest) (*models.Sector, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	sector := &models.Sector{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
		CreatedAt: time.Now().UTC(),
		CreatedBy: s.user,
	}

	if err := s.adapter.InsertSector(ctx, sector); err != nil {
		return nil, fmt.Errorf("insert sector: %w", err)
	}

	s.mu.Lock()
	s.sectors[sector.ID] = sector
	s.mu.Unlock()

	s.logger.Info("sector created", "id", sector.ID, "name", sector.Name, "user_id", s.user)

	out := *sector
	return &out, nil
}

// UpdateSector applies a partial update to the matching sector, in
// persistence and in memory. Unknown ids are a silent no-op.
func (s *Store) UpdateSector(ctx context.Context, id string, upd models.SectorUpdate) error {
	if upd.IsZero() {
		return nil
	}

	s.mu.RLock()
	_, ok := s.sectors[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := s.adapter.UpdateSector(ctx, id, upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("update sector: %w", err)
	}

	s.mu.Lock()
	if sector, ok := s.sectors[id]; ok {
		upd.Apply(sector)
	}
	s.mu.Unlock()

	s.logger.Info("sector updated", "id", id)
	return nil
}

// DeleteSector removes a sector and everything under it: stored file
// content first, then the sector row (dependents go with it when the
// backend cascades, row by row here when it doesn't), then memory.
// Idempotent on a missing id.
func (s *Store) DeleteSector(ctx context.Context, id string) error {
	s.mu.RLock()
	_, ok := s.sectors[id]
	var docs []*models.Document
	var folderIDs []string
	if ok {
		for _, d := range s.documents {
			if d.SectorID == id {
				docs = append(docs, d)
			}
		}
		for _, f := range s.folders {
			if f.SectorID == id {
				folderIDs = append(folderIDs, f.ID)
			}
		}
	}
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	for _, d := range docs {
		s.releaseContent(ctx, d)
	}

	if err := s.adapter.DeleteSector(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete sector: %w", err)
		}
	}

	if !s.adapter.Cascades() {
		for _, fid := range folderIDs {
			if err := s.adapter.DeleteFolder(ctx, fid); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("delete folder %s: %w", fid, err)
			}
		}
		for _, d := range docs {
			if err := s.adapter.DeleteDocument(ctx, d.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("delete document %s: %w", d.ID, err)
			}
		}
	}

	s.mu.Lock()
	delete(s.sectors, id)
	for _, fid := range folderIDs {
		if f, ok := s.folders[fid]; ok {
			s.unlinkChildLocked(f)
			delete(s.folders, fid)
		}
	}
	for _, d := range docs {
		delete(s.documents, d.ID)
	}
	delete(s.children, rootKey(id))
	s.mu.Unlock()

	s.logger.Info("sector deleted",
		"id", id,
		"folders_removed", len(folderIDs),
		"documents_removed", len(docs),
	)
	return nil
}

// SectorDocumentCount counts documents across the whole sector.
func (s *Store) SectorDocumentCount(sectorID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, d := range s.documents {
		if d.SectorID == sectorID {
			n++
		}
	}
	return n
}

// releaseContent drops a document's stored file content. Release failures
// are logged and swallowed: a dangling blob must not block a delete.
func (s *Store) releaseContent(ctx context.Context, d *models.Document) {
	if d.File.IsZero() {
		return
	}
	if err := s.blobs.Release(ctx, d.File); err != nil {
		s.logger.Warn("release file content failed",
			"document_id", d.ID,
			"ref", d.File.String(),
			"error", err,
		)
	}
}
