package match

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledger/ledgerlens/internal/models"
	"github.com/openledger/ledgerlens/internal/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRegistry(t *testing.T, doc string) *registry.Registry {
	t.Helper()
	reg, err := registry.Parse("merchant", []byte(doc))
	require.NoError(t, err)
	return reg
}

const starbucksDoc = `
starbucks:
  canonical_name: Starbucks
  variations:
    - "STARBUCKS #123"
    - SBUX
`

func TestMatch_Tiers(t *testing.T) {
	reg := testRegistry(t, starbucksDoc)
	engine := NewEngine(testLogger())

	tests := []struct {
		name         string
		text         string
		expectFound  bool
		expectTier   models.MatchTier
		expectScore  float64
		expectEntity string
	}{
		{
			name:         "exact canonical",
			text:         "Starbucks",
			expectFound:  true,
			expectTier:   models.TierExactCanonical,
			expectScore:  1.0,
			expectEntity: "starbucks",
		},
		{
			name:         "exact variation",
			text:         "STARBUCKS #123",
			expectFound:  true,
			expectTier:   models.TierExactVariation,
			expectScore:  0.95,
			expectEntity: "starbucks",
		},
		{
			name:         "variation is substring of input",
			text:         "STARBUCKS #123 SEATTLE",
			expectFound:  true,
			expectTier:   models.TierSubstring,
			expectScore:  0.70,
			expectEntity: "starbucks",
		},
		{
			name:         "input is substring of variation",
			text:         "sbux",
			expectFound:  true,
			expectTier:   models.TierSubstring,
			expectScore:  0.70,
			expectEntity: "starbucks",
		},
		{
			name:        "no match",
			text:        "UNKNOWN VENDOR",
			expectFound: false,
		},
		{
			name:        "empty text",
			text:        "",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, found := engine.Match(tt.text, reg)
			assert.Equal(t, tt.expectFound, found)
			if !tt.expectFound {
				return
			}
			assert.Equal(t, tt.expectTier, result.Tier)
			assert.Equal(t, tt.expectScore, result.Confidence)
			assert.Equal(t, tt.expectEntity, result.EntityID)
			assert.Equal(t, "Starbucks", result.Record.CanonicalName)
		})
	}
}

func TestMatch_CaseSensitivityPerTier(t *testing.T) {
	reg := testRegistry(t, starbucksDoc)
	engine := NewEngine(testLogger())

	// Canonical and variation comparisons are case-sensitive; lowercase
	// input therefore demotes to the case-insensitive substring tier.
	result, found := engine.Match("starbucks #123", reg)
	require.True(t, found)
	assert.Equal(t, models.TierSubstring, result.Tier)
}

func TestMatch_CanonicalBeatsEarlierVariation(t *testing.T) {
	doc := `
alpha:
  canonical_name: Coffee Shop
  variations:
    - BETA ROASTERS
beta:
  canonical_name: BETA ROASTERS
`
	reg := testRegistry(t, doc)
	engine := NewEngine(testLogger())

	// The scan continues past an early variation hit because a later
	// entry may still match at the canonical tier.
	result, found := engine.Match("BETA ROASTERS", reg)
	require.True(t, found)
	assert.Equal(t, "beta", result.EntityID)
	assert.Equal(t, models.TierExactCanonical, result.Tier)
}

func TestMatch_FirstHitWinsWithinTier(t *testing.T) {
	doc := `
first:
  canonical_name: First Coffee
  variations: [JOE'S]
second:
  canonical_name: Second Coffee
  variations: [JOE'S]
`
	reg := testRegistry(t, doc)
	engine := NewEngine(testLogger())

	result, found := engine.Match("JOE'S", reg)
	require.True(t, found)
	assert.Equal(t, "first", result.EntityID, "registry order decides ties; flagged as a config smell, not resolved")
	assert.Equal(t, models.TierExactVariation, result.Tier)
}

func TestMatch_VariationTierBeatsEarlierSubstring(t *testing.T) {
	doc := `
broad:
  canonical_name: Broad Match
  variations: [STAR]
exactv:
  canonical_name: Exact Variation
  variations: [STARBUCKS REWARDS]
`
	reg := testRegistry(t, doc)
	engine := NewEngine(testLogger())

	result, found := engine.Match("STARBUCKS REWARDS", reg)
	require.True(t, found)
	assert.Equal(t, "exactv", result.EntityID, "exact variation outranks an earlier substring hit")
	assert.Equal(t, models.TierExactVariation, result.Tier)
}

func TestMatch_NilRegistry(t *testing.T) {
	engine := NewEngine(testLogger())
	_, found := engine.Match("anything", nil)
	assert.False(t, found)
}
