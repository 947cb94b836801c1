package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
)

// Catalog serves the registries for all entity types from a directory,
// one document per type. The active set lives behind an atomic pointer:
// resolution callers take a Snapshot and see a fully-consistent view
// even while Reload swaps in new documents.
type Catalog struct {
	dir      string
	logger   *slog.Logger
	snapshot atomic.Pointer[Snapshot]
}

// Snapshot is an immutable set of registries taken at one point in time.
type Snapshot struct {
	registries map[string]*Registry
}

// Get returns the registry for the given entity type.
func (s *Snapshot) Get(entityType string) (*Registry, bool) {
	r, ok := s.registries[entityType]
	return r, ok
}

// Types returns the entity types in the snapshot, sorted.
func (s *Snapshot) Types() []string {
	types := make([]string, 0, len(s.registries))
	for t := range s.registries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NewCatalog creates a catalog over dir and loads the initial snapshot.
// Individual registry documents that fail to parse are skipped with a
// logged error; resolution for those entity types reports unresolved
// until the document is fixed.
func NewCatalog(dir string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{dir: dir, logger: logger}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Snapshot returns the active registry set. The result is immutable and
// safe to use for the whole of one resolution pass.
func (c *Catalog) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Reload re-reads every registry document in the directory and atomically
// swaps the active snapshot. A document that fails to parse keeps its
// previously loaded registry when one exists, so a bad edit to one type
// never takes down the others.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading registry directory: %w", err)
	}

	prev := c.snapshot.Load()
	next := &Snapshot{registries: make(map[string]*Registry)}

	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !registryExts[filepath.Ext(e.Name())] {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		reg, loadErr := LoadFile(path)
		if loadErr != nil {
			c.logger.Error("registry load failed", "file", e.Name(), "error", loadErr)
			if prev != nil {
				if old, ok := prev.Get(typeFromPath(path)); ok {
					next.registries[old.Type()] = old
					c.logger.Warn("keeping previous registry snapshot", "type", old.Type())
				}
			}
			continue
		}
		next.registries[reg.Type()] = reg
		c.logger.Debug("registry loaded", "type", reg.Type(), "entries", reg.Len())
	}

	c.snapshot.Store(next)
	return nil
}
