package definitions

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync/atomic"

	"github.com/openledger/ledgerlens/internal/metrics"
)

// Snapshot is one immutable, validated definition set. Resolution takes
// a snapshot once per record (or batch) and never observes a partially
// applied reload.
type Snapshot struct {
	defs    []EntityDefinition
	enabled []EntityDefinition
	version string
}

// All returns every definition in declaration order.
func (s *Snapshot) All() []EntityDefinition { return s.defs }

// ListEnabled returns the enabled definitions in resolution order:
// ascending priority, declaration order breaking ties.
func (s *Snapshot) ListEnabled() []EntityDefinition { return s.enabled }

// Version is the opaque hash of this definition set, recorded in
// resolution provenance.
func (s *Snapshot) Version() string { return s.version }

// Registry holds the active definition set behind an atomic pointer and
// reloads it from its source file on demand.
type Registry struct {
	path     string
	logger   *slog.Logger
	snapshot atomic.Pointer[Snapshot]
}

// NewRegistry loads the definitions document at path. Errors here are
// fatal: the engine must not start with a bad definition set.
func NewRegistry(path string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{path: path, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRegistryFromDefs builds a registry from an already-parsed set,
// bypassing the file source. Used by tests and embedding callers.
func NewRegistryFromDefs(defs []EntityDefinition, logger *slog.Logger) (*Registry, error) {
	if err := validate(defs); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{logger: logger}
	r.install(defs)
	return r, nil
}

// Snapshot returns the active definition set.
func (r *Registry) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// Reload re-parses the source document and atomically replaces the
// active set. On failure the previous snapshot stays active and the
// error is returned; a hot reload must never partially apply.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		metrics.Inc(metrics.ReloadFailures)
		return fmt.Errorf("reading definitions: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		metrics.Inc(metrics.ReloadFailures)
		return err
	}
	r.install(defs)
	metrics.Inc(metrics.ReloadTotal)
	return nil
}

func (r *Registry) install(defs []EntityDefinition) {
	snap := &Snapshot{
		defs:    defs,
		enabled: sortEnabled(defs),
		version: version(defs),
	}
	r.warnTemplateOrder(snap)
	r.snapshot.Store(snap)
	r.logger.Info("definitions loaded", "count", len(defs), "enabled", len(snap.enabled), "version", snap.version)
}

var templateFieldPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// warnTemplateOrder flags templates that reference output fields of a
// definition that does not run strictly earlier. The engine does not
// reject these (the template strategy simply finds the field absent at
// resolve time), but they are almost always a priority misconfiguration.
func (r *Registry) warnTemplateOrder(snap *Snapshot) {
	for rank, d := range snap.enabled {
		if d.Extraction.Template == "" {
			continue
		}
		for _, m := range templateFieldPattern.FindAllStringSubmatch(d.Extraction.Template, -1) {
			field := m[1]
			owner, known := producedBy(snap.enabled, field)
			if !known {
				continue // upstream record field; nothing to check
			}
			if owner >= rank {
				r.logger.Warn("template references a field its producer has not resolved yet",
					"definition", d.ID, "field", field, "producer", snap.enabled[owner].ID)
			}
		}
	}
}

// producedBy returns the rank of the enabled definition whose outputs
// include the given record field, if any.
func producedBy(enabled []EntityDefinition, field string) (int, bool) {
	for rank, d := range enabled {
		if field == d.ID+"_canonical" || field == d.ID+"_entity" || field == d.ID+"_resolved" {
			return rank, true
		}
		for target := range d.OutputFieldMappings {
			if target == field {
				return rank, true
			}
		}
	}
	return 0, false
}
