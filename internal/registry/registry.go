// Package registry loads and serves the canonical entity registries.
// A registry is a flat id → EntityRecord document for one entity type;
// entry order in the document is significant because the match engine
// scans entries in stored order.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openledger/ledgerlens/internal/models"
)

// ErrNotFound is returned when a registry or registry entry does not exist.
var ErrNotFound = errors.New("not found")

// Entry pairs an entity id with its record, in document order.
type Entry struct {
	ID     string
	Record models.EntityRecord
}

// Registry is an immutable, ordered view of one entity type's canonical
// records. Build one with Parse or LoadFile; never mutate it after that —
// resolution goroutines read it without locks.
type Registry struct {
	entityType string
	entries    []Entry
	byID       map[string]int
}

// Type returns the entity type this registry covers ("merchant", "bank", ...).
func (r *Registry) Type() string { return r.entityType }

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns all entries in document order. The slice is shared;
// callers must not modify it.
func (r *Registry) Entries() []Entry { return r.entries }

// Get returns the record for id.
func (r *Registry) Get(id string) (models.EntityRecord, bool) {
	i, ok := r.byID[id]
	if !ok {
		return models.EntityRecord{}, false
	}
	return r.entries[i].Record, true
}

// Parse reads a registry document (YAML or JSON; YAML parsing covers
// both) into an ordered Registry. The document is a mapping of entity
// id to record; mapping order is preserved.
func Parse(entityType string, data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s registry: %w", entityType, err)
	}

	reg := &Registry{entityType: entityType, byID: make(map[string]int)}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return reg, nil // empty document
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing %s registry: document root must be a mapping of id to record", entityType)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		id := keyNode.Value
		if id == "" {
			return nil, fmt.Errorf("parsing %s registry: empty entity id at line %d", entityType, keyNode.Line)
		}
		if _, dup := reg.byID[id]; dup {
			return nil, fmt.Errorf("parsing %s registry: duplicate entity id %q", entityType, id)
		}
		var rec models.EntityRecord
		if err := valNode.Decode(&rec); err != nil {
			return nil, fmt.Errorf("parsing %s registry entry %q: %w", entityType, id, err)
		}
		if rec.CanonicalName == "" {
			return nil, fmt.Errorf("parsing %s registry entry %q: canonical_name is required", entityType, id)
		}
		reg.byID[id] = len(reg.entries)
		reg.entries = append(reg.entries, Entry{ID: id, Record: rec})
	}
	return reg, nil
}

// LoadFile reads one registry document from disk. The entity type is the
// file name without extension ("merchant.yaml" → "merchant").
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}
	return Parse(typeFromPath(path), data)
}

func typeFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// registryExts are the document extensions the catalog scans for.
var registryExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}
