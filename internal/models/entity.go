package models

// EntityRecord is one canonical entry in a registry.
type EntityRecord struct {
	CanonicalName string         `json:"canonical_name" yaml:"canonical_name"`
	Attributes    map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Variations    []string       `json:"variations,omitempty" yaml:"variations,omitempty"`
	// SameAs lists ids this record is an alias of. Entries may carry a
	// "<registry type>:" prefix when they point into another registry.
	SameAs []string `json:"same_as,omitempty" yaml:"same_as,omitempty"`
}

// MatchTier classifies how a search string matched a registry entry.
type MatchTier string

const (
	TierExactCanonical MatchTier = "exact_canonical"
	TierExactVariation MatchTier = "exact_variation"
	TierSubstring      MatchTier = "substring"
)

// Confidence returns the fixed confidence score for the tier. Scores are
// deliberately not configurable so they stay comparable across entity
// types.
func (t MatchTier) Confidence() float64 {
	switch t {
	case TierExactCanonical:
		return 1.0
	case TierExactVariation:
		return 0.95
	case TierSubstring:
		return 0.70
	default:
		return 0
	}
}

// MatchResult is a scored hit from the fuzzy match engine.
type MatchResult struct {
	EntityID   string       `json:"entity_id"`
	Record     EntityRecord `json:"record"`
	Tier       MatchTier    `json:"tier"`
	Confidence float64      `json:"confidence"`
}
