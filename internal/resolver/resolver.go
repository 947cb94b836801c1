// Package resolver drives entity resolution across all configured
// entity types: extraction, fuzzy matching, and merging results back
// into the record.
package resolver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openledger/ledgerlens/internal/definitions"
	"github.com/openledger/ledgerlens/internal/extract"
	"github.com/openledger/ledgerlens/internal/match"
	"github.com/openledger/ledgerlens/internal/metrics"
	"github.com/openledger/ledgerlens/internal/models"
	"github.com/openledger/ledgerlens/internal/registry"
)

// DefaultBatchWorkers caps parallelism in ResolveBatch when the caller
// does not configure one.
const DefaultBatchWorkers = 8

// Orchestrator resolves records against the active definition set and
// registry catalog. It holds no per-record state and is safe for
// concurrent use; definitions and registries are read through immutable
// snapshots.
type Orchestrator struct {
	defs      *definitions.Registry
	catalog   *registry.Catalog
	extractor *extract.Resolver
	matcher   *match.Engine
	logger    *slog.Logger
	now       func() time.Time

	mu            sync.Mutex
	missingWarned map[string]bool // registry names already logged as missing
}

// New creates an orchestrator over the given definition registry and
// registry catalog.
func New(defs *definitions.Registry, catalog *registry.Catalog, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		defs:          defs,
		catalog:       catalog,
		extractor:     extract.NewResolver(logger),
		matcher:       match.NewEngine(logger),
		logger:        logger,
		now:           time.Now,
		missingWarned: make(map[string]bool),
	}
}

// Resolve enriches the record in place and returns it. Each enabled
// definition runs in ascending priority order against one consistent
// snapshot of definitions and registries, so later definitions may
// reference fields written by earlier ones and a concurrent hot reload
// is never observed mid-record.
//
// Resolution only adds fields. Per definition id it writes either
// "<id>_entity", "<id>_resolved", "<id>_canonical", the configured
// output field mappings and "<id>_provenance", or on a miss
// "<id>_entity"=nil, "<id>_resolved"=false and "<id>_raw_text".
func (o *Orchestrator) Resolve(record models.Record) models.Record {
	defsSnap := o.defs.Snapshot()
	catSnap := o.catalog.Snapshot()
	metrics.Inc(metrics.ResolveTotal)

	for _, def := range defsSnap.ListEnabled() {
		o.resolveOne(record, def, defsSnap.Version(), catSnap)
	}
	return record
}

func (o *Orchestrator) resolveOne(record models.Record, def definitions.EntityDefinition, version string, catSnap *registry.Snapshot) {
	text := o.extractor.Extract(record, def.Extraction)
	if text == "" {
		// No candidate text: this entity type is unresolved for this
		// record, matching is skipped entirely.
		record[def.ID+"_resolved"] = false
		metrics.Inc(metrics.NoCandidateText)
		return
	}

	reg, ok := catSnap.Get(def.Registry)
	if !ok {
		o.warnMissingRegistry(def.Registry, def.ID)
		record[def.ID+"_resolved"] = false
		record[def.ID+"_raw_text"] = text
		metrics.Inc(metrics.Unresolved)
		return
	}

	result, found := o.matcher.Match(text, reg)
	if !found {
		record[def.ID+"_entity"] = nil
		record[def.ID+"_resolved"] = false
		record[def.ID+"_raw_text"] = text
		metrics.Inc(metrics.Unresolved)
		return
	}

	record[def.ID+"_entity"] = result.Record
	record[def.ID+"_resolved"] = true
	record[def.ID+"_canonical"] = result.Record.CanonicalName
	for target, source := range def.OutputFieldMappings {
		if value, present := result.Record.Attributes[source]; present {
			record[target] = value
		}
	}
	record[def.ID+"_provenance"] = models.Provenance{
		ResolvedAt:         o.now().UTC(),
		MatchTier:          result.Tier,
		Confidence:         result.Confidence,
		SourceText:         text,
		DefinitionsVersion: version,
		CanonicalID:        result.EntityID,
	}

	switch result.Tier {
	case models.TierExactCanonical:
		metrics.Inc(metrics.MatchExactCanonical)
	case models.TierExactVariation:
		metrics.Inc(metrics.MatchExactVariation)
	case models.TierSubstring:
		metrics.Inc(metrics.MatchSubstring)
	}

	o.logger.Debug("entity resolved",
		"definition", def.ID, "text", text, "canonical", result.Record.CanonicalName,
		"tier", result.Tier, "confidence", result.Confidence)
}

func (o *Orchestrator) warnMissingRegistry(name, defID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.missingWarned[name] {
		return
	}
	o.missingWarned[name] = true
	o.logger.Error("registry unavailable, definition resolves nothing until it is fixed",
		"registry", name, "definition", defID)
}

// ResolveBatch resolves records independently and returns them in input
// order. Records share no mutable state, so resolution fans out across a
// bounded worker pool; the only error is context cancellation.
func (o *Orchestrator) ResolveBatch(ctx context.Context, records []models.Record, workers int) ([]models.Record, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}

	results := make([]models.Record, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, record := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = o.Resolve(record)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
