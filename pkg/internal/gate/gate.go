package gate

import (
	"sync"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage"
)

// Gate is the single access point to the store. Lookups run under a shared
// acquisition, so any number of them proceed in parallel; a mutation takes
// the exclusive side and performs its whole read-validate-write sequence
// there, which is what keeps two writers from interleaving between one
// writer's validation read and its write-back.
type Gate struct {
	mu    sync.RWMutex
	store storage.Store
}

func New(store storage.Store) *Gate {
	return &Gate{store: store}
}

// Read runs fn with a shared acquisition. fn only sees the lookup surface.
func (g *Gate) Read(fn func(storage.Reader) error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn(g.store)
}

// Write runs fn with the exclusive acquisition.
func (g *Gate) Write(fn func(storage.Store) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.store)
}
