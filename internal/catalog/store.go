package catalog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/GTDGit/grocery_api/internal/models"
)

// Store holds the current catalog snapshot and swaps it atomically on reload.
// Readers never observe a partially built catalog.
type Store struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Catalog]
}

// NewStore creates a Store holding an empty catalog.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(newCatalog(nil, 0, time.Time{}))
	return s
}

// Snapshot returns the current catalog. It is never nil.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

// Replace installs a new snapshot built from products and returns it.
func (s *Store) Replace(products []models.Product) *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := newCatalog(products, s.current.Load().version+1, time.Now())
	s.current.Store(next)
	return next
}
