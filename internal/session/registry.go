package session

import (
	"context"
	"log/slog"
	"sync"

	"arquivo/internal/domain/repositories"
	"arquivo/internal/store"
)

// Registry opens one entity store per identity, lazily, and tears it down
// when the session ends. All sessions share the same adapter and blob
// store; what is per-session is the in-memory state and the ownership
// stamp on created entities.
type Registry struct {
	adapter repositories.Adapter
	blobs   repositories.BlobStore
	logger  *slog.Logger

	mu     sync.Mutex
	stores map[string]*store.Store
}

// NewRegistry builds an empty registry.
func NewRegistry(adapter repositories.Adapter, blobs repositories.BlobStore, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		adapter: adapter,
		blobs:   blobs,
		logger:  logger,
		stores:  make(map[string]*store.Store),
	}
}

// Store returns the identity's store, opening and loading it on first use.
func (r *Registry) Store(ctx context.Context, userID string) (*store.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[userID]; ok {
		return s, nil
	}

	s, err := store.New(r.adapter, r.blobs, userID, r.logger)
	if err != nil {
		return nil, err
	}
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	r.stores[userID] = s
	return s, nil
}

// End closes the identity's session. No-op when none is open.
func (r *Registry) End(userID string) {
	r.mu.Lock()
	s, ok := r.stores[userID]
	delete(r.stores, userID)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Shutdown ends every open session.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[string]*store.Store)
	r.mu.Unlock()

	for _, s := range stores {
		s.Close()
	}
}
