// Package match classifies a candidate search string against a registry
// into tiered, confidence-scored results.
package match

import (
	"log/slog"
	"strings"

	"github.com/openledger/ledgerlens/internal/models"
	"github.com/openledger/ledgerlens/internal/registry"
)

// Engine matches candidate text against registries. It is stateless and
// safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a match engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Match scans the registry once, in stored entry order, and returns the
// best-tier hit:
//
//   - exact_canonical: text equals a canonical name (case-sensitive);
//     returns immediately, confidence 1.0.
//   - exact_variation: text equals a declared variation (case-sensitive);
//     first such entry wins, confidence 0.95.
//   - substring: text contains a variation or a variation contains text,
//     case-insensitive; first such entry wins, confidence 0.70.
//
// Two distinct entries hitting the same winning tier is registry-order
// dependent and logged as a configuration smell rather than resolved
// here. No hit returns ok=false; absence of a match is a normal outcome,
// not an error.
func (e *Engine) Match(text string, reg *registry.Registry) (models.MatchResult, bool) {
	if text == "" || reg == nil {
		return models.MatchResult{}, false
	}

	lower := strings.ToLower(text)
	var variationHit, substringHit *registry.Entry
	variationDupes, substringDupes := 0, 0

	entries := reg.Entries()
	for i := range entries {
		entry := &entries[i]
		if text == entry.Record.CanonicalName {
			return result(entry, models.TierExactCanonical), true
		}

		hitVariation, hitSubstring := false, false
		for _, v := range entry.Record.Variations {
			if text == v {
				hitVariation = true
				break
			}
			lv := strings.ToLower(v)
			if strings.Contains(lower, lv) || strings.Contains(lv, lower) {
				hitSubstring = true
			}
		}
		if hitVariation {
			if variationHit == nil {
				variationHit = entry
			} else {
				variationDupes++
			}
		} else if hitSubstring {
			if substringHit == nil {
				substringHit = entry
			} else {
				substringDupes++
			}
		}
	}

	switch {
	case variationHit != nil:
		if variationDupes > 0 {
			e.warnAmbiguous(reg, text, models.TierExactVariation, variationHit.ID, variationDupes)
		}
		return result(variationHit, models.TierExactVariation), true
	case substringHit != nil:
		if substringDupes > 0 {
			e.warnAmbiguous(reg, text, models.TierSubstring, substringHit.ID, substringDupes)
		}
		return result(substringHit, models.TierSubstring), true
	default:
		return models.MatchResult{}, false
	}
}

func (e *Engine) warnAmbiguous(reg *registry.Registry, text string, tier models.MatchTier, winner string, others int) {
	e.logger.Warn("multiple registry entries tie at the same match tier; winner is registry-order dependent",
		"registry", reg.Type(), "text", text, "tier", tier, "winner", winner, "other_hits", others)
}

func result(entry *registry.Entry, tier models.MatchTier) models.MatchResult {
	return models.MatchResult{
		EntityID:   entry.ID,
		Record:     entry.Record,
		Tier:       tier,
		Confidence: tier.Confidence(),
	}
}
