package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
	"arquivo/internal/domain/repositories"
)

// LocalBlobStore keeps file content in a per-run directory and issues
// transient references. A reference from a previous run points at a
// directory that no longer exists, so resolving it yields
// ErrContentUnavailable - consumers show that as a display state.
type LocalBlobStore struct {
	dir string
}

// NewLocalBlobStore creates a fresh content directory under baseDir (the
// OS temp dir when empty).
func NewLocalBlobStore(baseDir string) (*LocalBlobStore, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	dir, err := os.MkdirTemp(baseDir, "arquivo-blobs-")
	if err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &LocalBlobStore{dir: dir}, nil
}

// Dir returns the backing directory, mainly for cleanup in tests.
func (l *LocalBlobStore) Dir() string { return l.dir }

func (l *LocalBlobStore) Store(ctx context.Context, content io.Reader, meta models.FileMetadata) (models.FileRef, error) {
	name := uuid.NewString() + filepath.Ext(meta.FileName)
	target := filepath.Join(l.dir, name)

	f, err := os.Create(target)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(target)
		return models.FileRef{}, fmt.Errorf("write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return models.FileRef{}, fmt.Errorf("close %s: %w", target, err)
	}

	return models.TransientRef(name), nil
}

func (l *LocalBlobStore) Open(ctx context.Context, ref models.FileRef) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.dir, filepath.Base(ref.Locator)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ref.Locator, domain.ErrContentUnavailable)
		}
		return nil, fmt.Errorf("open %s: %w", ref.Locator, err)
	}
	return f, nil
}

func (l *LocalBlobStore) Release(ctx context.Context, ref models.FileRef) error {
	err := os.Remove(filepath.Join(l.dir, filepath.Base(ref.Locator)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", ref.Locator, err)
	}
	return nil
}

// Cleanup removes the whole content directory. Called on shutdown; every
// transient reference dies with it.
func (l *LocalBlobStore) Cleanup() error {
	return os.RemoveAll(l.dir)
}

var _ repositories.BlobStore = (*LocalBlobStore)(nil)
