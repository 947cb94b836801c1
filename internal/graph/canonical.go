// Package graph is the lightweight linked-data layer over registries:
// same_as equivalence resolution, reverse property indices, and triple
// export for analytics.
package graph

import (
	"strings"

	"github.com/openledger/ledgerlens/internal/models"
	"github.com/openledger/ledgerlens/internal/registry"
)

// MaxHops bounds same_as chain traversal. It is the sole safeguard
// against unbounded work in this package.
const MaxHops = 50

// ResolveCanonical follows the first declared same_as link from id until
// it reaches a record with no onward link. Traversal is best effort and
// never fails: a missing target, a link into another registry, a cycle,
// or the hop bound all stop at the last valid id reached, with the
// outcome flagged on the result. Callers treat CycleDetected as "use the
// current id as canonical for now".
func ResolveCanonical(reg *registry.Registry, id string) models.CanonicalResult {
	result := models.CanonicalResult{FinalID: id, Path: []string{id}}
	visited := map[string]bool{id: true}

	current := id
	for {
		rec, ok := reg.Get(current)
		if !ok {
			return result
		}
		result.FinalID = current
		recCopy := rec
		result.Record = &recCopy

		if len(rec.SameAs) == 0 {
			return result
		}
		target, local := localID(reg.Type(), rec.SameAs[0])
		if !local {
			// Link into another registry: canonical within this one.
			return result
		}
		if target == current {
			// First-order self link is a degenerate zero-length cycle;
			// the record is already canonical.
			return result
		}
		if visited[target] {
			result.CycleDetected = true
			return result
		}
		if result.HopCount >= MaxHops {
			result.BoundExceeded = true
			return result
		}
		if _, exists := reg.Get(target); !exists {
			return result
		}

		visited[target] = true
		result.Path = append(result.Path, target)
		result.HopCount++
		current = target
	}
}

// localID strips the registry-type prefix from a same_as target.
// Unprefixed ids are local; ids prefixed with another registry's type
// are not resolvable here.
func localID(registryType, target string) (string, bool) {
	prefix, rest, found := strings.Cut(target, ":")
	if !found {
		return target, true
	}
	if prefix == registryType {
		return rest, true
	}
	return target, false
}
