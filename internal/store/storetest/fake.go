// Package storetest provides in-memory Adapter and BlobStore fakes for
// store and handler tests. The fakes support failure injection so tests
// can assert that persistence failures never leak into in-memory state.
package storetest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
)

// Adapter is an in-memory repositories.Adapter. Cascade behavior is
// configurable so both store code paths get exercised.
type Adapter struct {
	mu        sync.Mutex
	sectors   map[string]models.Sector
	folders   map[string]models.Folder
	documents map[string]models.Document

	// CascadeDeletes controls what Cascades() reports. When true, deleting
	// a sector or folder also strips dependent rows, like a relational
	// backend with cascading foreign keys.
	CascadeDeletes bool

	// FailNext makes the next mutating call fail with the given error.
	FailNext error
}

// NewAdapter builds an empty fake with cascading deletes enabled.
func NewAdapter() *Adapter {
	return &Adapter{
		sectors:        make(map[string]models.Sector),
		folders:        make(map[string]models.Folder),
		documents:      make(map[string]models.Document),
		CascadeDeletes: true,
	}
}

func (a *Adapter) takeFailure() error {
	err := a.FailNext
	a.FailNext = nil
	return err
}

func (a *Adapter) Cascades() bool { return a.CascadeDeletes }
func (a *Adapter) Close() error   { return nil }

func (a *Adapter) FetchSectors(ctx context.Context) ([]models.Sector, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Sector, 0, len(a.sectors))
	for _, s := range a.sectors {
		out = append(out, s)
	}
	return out, nil
}

func (a *Adapter) InsertSector(ctx context.Context, sector *models.Sector) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	a.sectors[sector.ID] = *sector
	return nil
}

func (a *Adapter) UpdateSector(ctx context.Context, id string, upd models.SectorUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	s, ok := a.sectors[id]
	if !ok {
		return fmt.Errorf("sector %s: %w", id, domain.ErrNotFound)
	}
	upd.Apply(&s)
	a.sectors[id] = s
	return nil
}

func (a *Adapter) DeleteSector(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	if _, ok := a.sectors[id]; !ok {
		return fmt.Errorf("sector %s: %w", id, domain.ErrNotFound)
	}
	delete(a.sectors, id)
	if a.CascadeDeletes {
		for fid, f := range a.folders {
			if f.SectorID == id {
				delete(a.folders, fid)
			}
		}
		for did, d := range a.documents {
			if d.SectorID == id {
				delete(a.documents, did)
			}
		}
	}
	return nil
}

func (a *Adapter) FetchFolders(ctx context.Context) ([]models.Folder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Folder, 0, len(a.folders))
	for _, f := range a.folders {
		out = append(out, f)
	}
	return out, nil
}

func (a *Adapter) InsertFolder(ctx context.Context, folder *models.Folder) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	a.folders[folder.ID] = *folder
	return nil
}

func (a *Adapter) UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	f, ok := a.folders[id]
	if !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	upd.Apply(&f)
	a.folders[id] = f
	return nil
}

func (a *Adapter) DeleteFolder(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	if _, ok := a.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(a.folders, id)
	if a.CascadeDeletes {
		// Transitive children, parent pointers only.
		removed := map[string]struct{}{id: {}}
		for {
			changed := false
			for fid, f := range a.folders {
				if f.ParentID == nil {
					continue
				}
				if _, gone := removed[*f.ParentID]; gone {
					delete(a.folders, fid)
					removed[fid] = struct{}{}
					changed = true
				}
			}
			if !changed {
				break
			}
		}
		for did, d := range a.documents {
			if _, gone := removed[d.FolderID]; gone {
				delete(a.documents, did)
			}
		}
	}
	return nil
}

func (a *Adapter) FetchDocuments(ctx context.Context) ([]models.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Document, 0, len(a.documents))
	for _, d := range a.documents {
		out = append(out, d)
	}
	return out, nil
}

func (a *Adapter) InsertDocument(ctx context.Context, doc *models.Document) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	a.documents[doc.ID] = *doc
	return nil
}

func (a *Adapter) UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	d, ok := a.documents[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	upd.Apply(&d)
	a.documents[id] = d
	return nil
}

func (a *Adapter) DeleteDocument(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeFailure(); err != nil {
		return err
	}
	if _, ok := a.documents[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(a.documents, id)
	return nil
}

// SetDocumentFile overwrites a stored document's file reference, e.g. to
// simulate a record whose content can no longer be resolved.
func (a *Adapter) SetDocumentFile(id string, ref models.FileRef) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.documents[id]; ok {
		d.File = ref
		a.documents[id] = d
	}
}

// SectorCount reports how many sector rows the fake holds.
func (a *Adapter) SectorCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sectors)
}

// FolderCount reports how many folder rows the fake holds.
func (a *Adapter) FolderCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.folders)
}

// DocumentCount reports how many document rows the fake holds.
func (a *Adapter) DocumentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.documents)
}

// Blobs is an in-memory repositories.BlobStore issuing transient refs.
type Blobs struct {
	mu       sync.Mutex
	next     int
	contents map[string][]byte

	// Released records every reference passed to Release, in order.
	Released []models.FileRef

	// FailNext makes the next Store call fail with the given error.
	FailNext error
}

// NewBlobs builds an empty blob fake.
func NewBlobs() *Blobs {
	return &Blobs{contents: make(map[string][]byte)}
}

func (b *Blobs) Store(ctx context.Context, content io.Reader, meta models.FileMetadata) (models.FileRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.FailNext; err != nil {
		b.FailNext = nil
		return models.FileRef{}, err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return models.FileRef{}, err
	}
	b.next++
	locator := fmt.Sprintf("blob-%d", b.next)
	b.contents[locator] = data
	return models.TransientRef(locator), nil
}

func (b *Blobs) Open(ctx context.Context, ref models.FileRef) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.contents[ref.Locator]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref.Locator, domain.ErrContentUnavailable)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Blobs) Release(ctx context.Context, ref models.FileRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.contents, ref.Locator)
	b.Released = append(b.Released, ref)
	return nil
}

// Stored reports how many blobs are currently held.
func (b *Blobs) Stored() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.contents)
}
