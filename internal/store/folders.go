package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

// CreateFolderRequest carries the caller-supplied fields for AddFolder.
type CreateFolderRequest struct {
	SectorID string  `json:"sector_id"`
	ParentID *string `json:"parent_folder_id,omitempty"`
	Name     string  `json:"name"`
}

func (r CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SectorID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
	)
}

// AddFolder creates a folder under a sector, optionally nested under a
// parent folder. The sector must exist and the parent, when given, must
// belong to the same sector; mismatches fail with ErrInvalidReference.
func (s *Store) AddFolder(ctx context.Context, req CreateFolderRequest) (*models.Folder, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	s.mu.RLock()
	_, sectorOK := s.sectors[req.SectorID]
	var parent *models.Folder
	if req.ParentID != nil {
		parent = s.folders[*req.ParentID]
	}
	s.mu.RUnlock()

	if !sectorOK {
		return nil, fmt.Errorf("sector %s: %w", req.SectorID, domain.ErrInvalidReference)
	}
	if req.ParentID != nil {
		if parent == nil {
			return nil, fmt.Errorf("parent folder %s: %w", *req.ParentID, domain.ErrInvalidReference)
		}
		if parent.SectorID != req.SectorID {
			return nil, fmt.Errorf("parent folder %s is in sector %s: %w",
				parent.ID, parent.SectorID, domain.ErrInvalidReference)
		}
	}

	folder := &models.Folder{
		ID:        uuid.NewString(),
		SectorID:  req.SectorID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
		CreatedBy: s.user,
	}

	if err := s.adapter.InsertFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("insert folder: %w", err)
	}

	s.mu.Lock()
	s.folders[folder.ID] = folder
	s.linkChildLocked(folder)
	s.mu.Unlock()

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"sector_id", folder.SectorID,
		"parent_folder_id", folder.ParentID,
	)

	out := *folder
	return &out, nil
}

// UpdateFolder renames the matching folder. Unknown ids are a silent no-op.
func (s *Store) UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) error {
	if upd.IsZero() {
		return nil
	}

	s.mu.RLock()
	_, ok := s.folders[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := s.adapter.UpdateFolder(ctx, id, upd); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("update folder: %w", err)
	}

	s.mu.Lock()
	if folder, ok := s.folders[id]; ok {
		upd.Apply(folder)
	}
	s.mu.Unlock()

	s.logger.Info("folder updated", "id", id)
	return nil
}

// DeleteFolder removes a folder, every descendant folder, and every
// document located anywhere in that subtree, releasing stored file content
// along the way. Idempotent on a missing id.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	s.mu.RLock()
	_, ok := s.folders[id]
	var closure map[string]struct{}
	var docs []*models.Document
	if ok {
		closure = s.descendantClosureLocked(id)
		for _, d := range s.documents {
			if _, in := closure[d.FolderID]; in {
				docs = append(docs, d)
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

	if err := s.adapter.DeleteFolder(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete folder: %w", err)
		}
	}

	if !s.adapter.Cascades() {
		for fid := range closure {
			if fid == id {
				continue
			}
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
	for fid := range closure {
		if f, ok := s.folders[fid]; ok {
			s.unlinkChildLocked(f)
			delete(s.folders, fid)
		}
		delete(s.children, fid)
	}
	for _, d := range docs {
		delete(s.documents, d.ID)
	}
	s.mu.Unlock()

	s.logger.Info("folder deleted",
		"id", id,
		"folders_removed", len(closure),
		"documents_removed", len(docs),
	)
	return nil
}

// descendantClosureLocked walks the children index breadth-first from id,
// returning id plus every transitive descendant. The visited set makes the
// walk terminate even if a bug ever introduces a parent cycle.
func (s *Store) descendantClosureLocked(id string) map[string]struct{} {
	closure := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range s.children[current] {
			if _, seen := closure[child]; seen {
				continue
			}
			closure[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return closure
}

// FoldersByParent lists the folders directly under the given parent within
// a sector. A nil parent means the sector's root level. Name order.
func (s *Store) FoldersByParent(sectorID string, parentID *string) []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := rootKey(sectorID)
	if parentID != nil {
		key = *parentID
	}

	out := []models.Folder{}
	for _, fid := range s.children[key] {
		f, ok := s.folders[fid]
		if !ok || f.SectorID != sectorID {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FolderDocumentCount counts documents directly in the folder. Documents in
// subfolders are not included.
func (s *Store) FolderDocumentCount(folderID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, d := range s.documents {
		if d.FolderID == folderID {
			n++
		}
	}
	return n
}
