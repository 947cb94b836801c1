package graph

import (
	"sync"

	"github.com/spf13/cast"

	"github.com/openledger/ledgerlens/internal/registry"
)

// BuildReverseIndex groups entity ids by the value of one attribute in a
// single pass: value → ids holding that value, in registry order. Values
// are compared in string form so numeric and boolean attributes index
// consistently with how they appear in documents.
func BuildReverseIndex(reg *registry.Registry, property string) map[string][]string {
	index := make(map[string][]string)
	for _, entry := range reg.Entries() {
		value, ok := entry.Record.Attributes[property]
		if !ok {
			continue
		}
		key := cast.ToString(value)
		index[key] = append(index[key], entry.ID)
	}
	return index
}

// Index caches reverse indices per property so repeated Related queries
// against the same property cost one map lookup instead of a full scan.
// An Index is bound to one immutable registry snapshot; build a fresh
// Index after a catalog reload.
type Index struct {
	reg *registry.Registry

	mu         sync.Mutex
	properties map[string]map[string][]string
}

// NewIndex creates a lazy reverse-index cache over the registry.
func NewIndex(reg *registry.Registry) *Index {
	return &Index{reg: reg, properties: make(map[string]map[string][]string)}
}

// Related returns the ids whose attribute equals value, building and
// caching the property's reverse index on first use.
func (ix *Index) Related(property, value string) []string {
	ix.mu.Lock()
	idx, ok := ix.properties[property]
	if !ok {
		idx = BuildReverseIndex(ix.reg, property)
		ix.properties[property] = idx
	}
	ix.mu.Unlock()
	return idx[value]
}
