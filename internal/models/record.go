package models

import (
	"time"

	"github.com/spf13/cast"
)

// Record is the open field map being enriched, e.g. a parsed financial
// transaction. Resolution only adds fields; it never removes fields it
// does not own.
type Record map[string]any

// Clone returns a shallow copy of the record. Field values are shared,
// which is safe because resolution treats existing values as read-only.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// GetString reads a field coerced to string. Missing fields and values
// that cannot be represented as a string read as "".
func (r Record) GetString(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// Has reports whether the field is present with a non-empty string form.
func (r Record) Has(field string) bool {
	return r.GetString(field) != ""
}

// Provenance describes how and when one entity type was resolved on a
// record. It is written under the "<definition id>_provenance" field.
type Provenance struct {
	ResolvedAt         time.Time `json:"resolved_at"`
	MatchTier          MatchTier `json:"match_tier"`
	Confidence         float64   `json:"confidence"`
	SourceText         string    `json:"source_text"`
	DefinitionsVersion string    `json:"definitions_version"`
	CanonicalID        string    `json:"canonical_id"`
}
