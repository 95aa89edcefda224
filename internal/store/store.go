// Package store holds the authoritative in-memory collections of sectors,
// folders and documents for one authenticated session, and keeps them in
// step with a persistence adapter. All cascade semantics live here.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
	"arquivo/internal/domain/repositories"
)

// Store owns the three entity collections for the lifetime of a session.
// Mutations write through to the adapter first; a failed write never
// touches the in-memory state.
type Store struct {
	adapter repositories.Adapter
	blobs   repositories.BlobStore
	user    string
	logger  *slog.Logger

	mu        sync.RWMutex
	sectors   map[string]*models.Sector
	folders   map[string]*models.Folder
	documents map[string]*models.Document

	// children maps a parent key (folder id, or rootKey(sectorID) for
	// sector roots) to its child folder ids. Maintained incrementally so
	// descendant closures don't rescan the whole collection.
	children map[string][]string

	open bool
}

// New builds a store bound to the acting identity. An empty identity is
// rejected: no identity means no data.
func New(adapter repositories.Adapter, blobs repositories.BlobStore, userID string, logger *slog.Logger) (*Store, error) {
	if userID == "" {
		return nil, domain.ErrNoSession
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		adapter:   adapter,
		blobs:     blobs,
		user:      userID,
		logger:    logger,
		sectors:   make(map[string]*models.Sector),
		folders:   make(map[string]*models.Folder),
		documents: make(map[string]*models.Document),
		children:  make(map[string][]string),
	}, nil
}

// UserID returns the identity the store is bound to.
func (s *Store) UserID() string {
	return s.user
}

// Open loads the collections from the adapter. When no sectors exist yet
// the default set is seeded, stamped with the session identity.
func (s *Store) Open(ctx context.Context) error {
	sectors, err := s.adapter.FetchSectors(ctx)
	if err != nil {
		return fmt.Errorf("fetch sectors: %w", err)
	}

	if len(sectors) == 0 {
		sectors, err = s.seedDefaultSectors(ctx)
		if err != nil {
			return fmt.Errorf("seed default sectors: %w", err)
		}
	}

	folders, err := s.adapter.FetchFolders(ctx)
	if err != nil {
		return fmt.Errorf("fetch folders: %w", err)
	}
	documents, err := s.adapter.FetchDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetch documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sectors = make(map[string]*models.Sector, len(sectors))
	for i := range sectors {
		sec := sectors[i]
		s.sectors[sec.ID] = &sec
	}
	s.folders = make(map[string]*models.Folder, len(folders))
	s.children = make(map[string][]string)
	for i := range folders {
		f := folders[i]
		s.folders[f.ID] = &f
		s.linkChildLocked(&f)
	}
	s.documents = make(map[string]*models.Document, len(documents))
	for i := range documents {
		d := documents[i]
		s.documents[d.ID] = &d
	}
	s.open = true

	s.logger.Info("store opened",
		"user_id", s.user,
		"sectors", len(s.sectors),
		"folders", len(s.folders),
		"documents", len(s.documents),
	)
	return nil
}

// Close discards the in-memory collections. Persisted data stays put.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sectors = make(map[string]*models.Sector)
	s.folders = make(map[string]*models.Folder)
	s.documents = make(map[string]*models.Document)
	s.children = make(map[string][]string)
	s.open = false

	s.logger.Info("store closed", "user_id", s.user)
}

// Sectors returns a name-ordered snapshot of the sector collection.
func (s *Store) Sectors() []models.Sector {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Sector, 0, len(s.sectors))
	for _, sec := range s.sectors {
		out = append(out, *sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Folders returns a name-ordered snapshot of the folder collection.
func (s *Store) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Documents returns a snapshot of the document collection, newest first.
func (s *Store) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Document, 0, len(s.documents))
	for _, d := range s.documents {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// rootKey is the children-index key for a sector's root level.
func rootKey(sectorID string) string {
	return "sector:" + sectorID
}

// parentKey resolves the children-index key a folder hangs under.
func parentKey(f *models.Folder) string {
	if f.ParentID == nil {
		return rootKey(f.SectorID)
	}
	return *f.ParentID
}

func (s *Store) linkChildLocked(f *models.Folder) {
	key := parentKey(f)
	s.children[key] = append(s.children[key], f.ID)
}

func (s *Store) unlinkChildLocked(f *models.Folder) {
	key := parentKey(f)
	ids := s.children[key]
	for i, id := range ids {
		if id == f.ID {
			s.children[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.children[key]) == 0 {
		delete(s.children, key)
	}
}
