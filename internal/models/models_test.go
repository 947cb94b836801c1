package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_GetString(t *testing.T) {
	r := Record{
		"text":   "STARBUCKS #123",
		"amount": 12.50,
		"count":  3,
		"flag":   true,
		"nested": map[string]any{"a": 1},
		"nilval": nil,
	}

	assert.Equal(t, "STARBUCKS #123", r.GetString("text"))
	assert.Equal(t, "12.5", r.GetString("amount"))
	assert.Equal(t, "3", r.GetString("count"))
	assert.Equal(t, "true", r.GetString("flag"))
	assert.Equal(t, "", r.GetString("nested"), "non-scalar values read as empty")
	assert.Equal(t, "", r.GetString("nilval"))
	assert.Equal(t, "", r.GetString("missing"))
}

func TestRecord_Has(t *testing.T) {
	r := Record{"a": "x", "b": "", "c": nil}
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("b"))
	assert.False(t, r.Has("c"))
	assert.False(t, r.Has("d"))
}

func TestRecord_Clone(t *testing.T) {
	r := Record{"a": "x"}
	c := r.Clone()
	c["b"] = "y"
	assert.NotContains(t, r, "b")
	assert.Equal(t, "x", c.GetString("a"))
}

func TestMatchTier_ConfidenceOrdering(t *testing.T) {
	exact := TierExactCanonical.Confidence()
	variation := TierExactVariation.Confidence()
	substring := TierSubstring.Confidence()

	assert.Equal(t, 1.0, exact)
	assert.Equal(t, 0.95, variation)
	assert.Equal(t, 0.70, substring)

	// Confidence must be strictly ordered across tiers so scores stay
	// comparable between entity types.
	assert.Greater(t, exact, variation)
	assert.Greater(t, variation, substring)
	assert.Greater(t, substring, MatchTier("bogus").Confidence())
}
