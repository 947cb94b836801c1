// Package extract computes the candidate search text for a
// (record, entity definition) pair. Strategies run in a fixed order and
// the first non-empty result wins; an empty result means the entity type
// has no candidate text on this record and matching is skipped.
package extract

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/openledger/ledgerlens/internal/definitions"
	"github.com/openledger/ledgerlens/internal/models"
)

// Resolver applies the extraction strategies of an entity definition.
type Resolver struct {
	extractors map[string]Func
	logger     *slog.Logger

	mu     sync.Mutex
	warned map[string]bool // extractor names already logged as unknown
}

// NewResolver creates a resolver over the built-in extractor table.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		extractors: builtins,
		logger:     logger,
		warned:     make(map[string]bool),
	}
}

// Extract returns the candidate text for the record under the given
// extraction spec, or "" when no strategy produces text.
//
// Strategy order is fixed: direct field, named extractor, fallback
// field, template. A reference to an extractor missing from the
// allow-list is non-fatal: the strategy yields empty and the name is
// logged once.
func (r *Resolver) Extract(record models.Record, spec definitions.Extraction) string {
	if spec.SourceField != "" {
		if text := record.GetString(spec.SourceField); text != "" {
			return text
		}
	}

	if spec.Extractor != "" {
		if fn, ok := r.extractors[spec.Extractor]; ok {
			inputs := make([]string, 0, len(spec.InputFields))
			for _, f := range spec.InputFields {
				inputs = append(inputs, record.GetString(f))
			}
			if text := fn(inputs); text != "" {
				return text
			}
		} else {
			r.warnUnknown(spec.Extractor)
		}
	}

	if spec.FallbackField != "" {
		if text := record.GetString(spec.FallbackField); text != "" {
			return text
		}
	}

	if spec.Template != "" {
		if text, ok := expandTemplate(spec.Template, record); ok {
			return text
		}
	}

	return ""
}

func (r *Resolver) warnUnknown(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warned[name] {
		return
	}
	r.warned[name] = true
	r.logger.Warn("unknown extractor, definition will never extract via it", "extractor", name)
}

// expandTemplate substitutes {field} placeholders with record values.
// Substitution is literal; the template fails (ok=false) when any
// referenced field is absent or empty, which happens when the producing
// definition has not resolved yet.
func expandTemplate(template string, record models.Record) (string, bool) {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), true
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			b.WriteString(rest)
			return b.String(), true
		}
		field := rest[open+1 : open+closing]
		value := record.GetString(field)
		if value == "" {
			return "", false
		}
		b.WriteString(rest[:open])
		b.WriteString(value)
		rest = rest[open+closing+1:]
	}
}
