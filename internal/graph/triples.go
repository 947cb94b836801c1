package graph

import (
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/openledger/ledgerlens/internal/models"
	"github.com/openledger/ledgerlens/internal/registry"
)

// ExportTriples flattens a registry into (subject, predicate, object)
// statements: one "has_<attribute>" triple per scalar attribute and one
// "same_as" triple per declared equivalence link. Subjects and same_as
// objects carry the registry type as a namespace prefix so exports from
// several registries can be merged without id collisions. Output order
// is deterministic: registry order, attribute keys sorted.
func ExportTriples(reg *registry.Registry) []models.Triple {
	var triples []models.Triple
	for _, entry := range reg.Entries() {
		subject := qualify(reg.Type(), entry.ID)

		keys := make([]string, 0, len(entry.Record.Attributes))
		for k := range entry.Record.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			triples = append(triples, models.Triple{
				Subject:   subject,
				Predicate: "has_" + k,
				Object:    cast.ToString(entry.Record.Attributes[k]),
			})
		}

		for _, target := range entry.Record.SameAs {
			triples = append(triples, models.Triple{
				Subject:   subject,
				Predicate: "same_as",
				Object:    qualifyTarget(reg.Type(), target),
			})
		}
	}
	return triples
}

// FindByProperty returns every entry whose attribute equals value, in
// registry order. A linear scan is fine at registry scale (tens to low
// thousands of entries); use Index for repeated queries.
func FindByProperty(reg *registry.Registry, property, value string) []registry.Entry {
	var found []registry.Entry
	for _, entry := range reg.Entries() {
		attr, ok := entry.Record.Attributes[property]
		if ok && cast.ToString(attr) == value {
			found = append(found, entry)
		}
	}
	return found
}

// Subgraph returns the local neighbourhood of one entry: its own
// attribute and same_as links as outgoing triples, and every other entry
// referencing it (by attribute value or same_as) as incoming triples.
func Subgraph(reg *registry.Registry, id string) models.Subgraph {
	sg := models.Subgraph{CenterID: qualify(reg.Type(), id)}

	if rec, ok := reg.Get(id); ok {
		recCopy := rec
		sg.Center = &recCopy
		sg.Outgoing = entryTriples(reg.Type(), id, rec)
	}

	qualified := qualify(reg.Type(), id)
	for _, entry := range reg.Entries() {
		if entry.ID == id {
			continue
		}
		subject := qualify(reg.Type(), entry.ID)
		keys := make([]string, 0, len(entry.Record.Attributes))
		for k := range entry.Record.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := cast.ToString(entry.Record.Attributes[k])
			if v == id || v == qualified {
				sg.Incoming = append(sg.Incoming, models.Triple{Subject: subject, Predicate: "has_" + k, Object: id})
			}
		}
		for _, target := range entry.Record.SameAs {
			if target == id || qualifyTarget(reg.Type(), target) == qualified {
				sg.Incoming = append(sg.Incoming, models.Triple{Subject: subject, Predicate: "same_as", Object: qualified})
			}
		}
	}
	return sg
}

func entryTriples(registryType, id string, rec models.EntityRecord) []models.Triple {
	subject := qualify(registryType, id)
	keys := make([]string, 0, len(rec.Attributes))
	for k := range rec.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	triples := make([]models.Triple, 0, len(keys)+len(rec.SameAs))
	for _, k := range keys {
		triples = append(triples, models.Triple{Subject: subject, Predicate: "has_" + k, Object: cast.ToString(rec.Attributes[k])})
	}
	for _, target := range rec.SameAs {
		triples = append(triples, models.Triple{Subject: subject, Predicate: "same_as", Object: qualifyTarget(registryType, target)})
	}
	return triples
}

func qualify(registryType, id string) string {
	return registryType + ":" + id
}

// qualifyTarget namespaces a same_as target, leaving already-prefixed
// ids (including links into other registries) untouched.
func qualifyTarget(registryType, target string) string {
	if strings.Contains(target, ":") {
		return target
	}
	return qualify(registryType, target)
}
