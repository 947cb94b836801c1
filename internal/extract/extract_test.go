package extract

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openledger/ledgerlens/internal/definitions"
	"github.com/openledger/ledgerlens/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestExtract_StrategyOrder(t *testing.T) {
	r := NewResolver(testLogger())

	tests := []struct {
		name     string
		record   models.Record
		spec     definitions.Extraction
		expected string
	}{
		{
			name:     "direct field wins",
			record:   models.Record{"merchant_text": "Starbucks", "description": "ignored"},
			spec:     definitions.Extraction{SourceField: "merchant_text", FallbackField: "description"},
			expected: "Starbucks",
		},
		{
			name:   "extractor runs when direct field empty",
			record: models.Record{"description": "POS STARBUCKS #123"},
			spec: definitions.Extraction{
				SourceField: "merchant_text",
				Extractor:   "merchant_from_description",
				InputFields: []string{"description"},
			},
			expected: "STARBUCKS",
		},
		{
			name:     "fallback field after empty direct and no extractor",
			record:   models.Record{"description": "RAW TEXT"},
			spec:     definitions.Extraction{SourceField: "merchant_text", FallbackField: "description"},
			expected: "RAW TEXT",
		},
		{
			name:   "unknown extractor falls through to fallback",
			record: models.Record{"description": "RAW TEXT"},
			spec: definitions.Extraction{
				Extractor:     "does_not_exist",
				InputFields:   []string{"description"},
				FallbackField: "description",
			},
			expected: "RAW TEXT",
		},
		{
			name:     "template derives from earlier-priority output",
			record:   models.Record{"bank_canonical": "Example Bank"},
			spec:     definitions.Extraction{Template: "{bank_canonical} Checking"},
			expected: "Example Bank Checking",
		},
		{
			name:     "template fails when a referenced field is absent",
			record:   models.Record{},
			spec:     definitions.Extraction{Template: "{bank_canonical} Checking"},
			expected: "",
		},
		{
			name:     "template fails when a referenced field is empty",
			record:   models.Record{"bank_canonical": ""},
			spec:     definitions.Extraction{Template: "{bank_canonical} Checking"},
			expected: "",
		},
		{
			name:     "no strategy yields empty",
			record:   models.Record{"other": "x"},
			spec:     definitions.Extraction{SourceField: "missing"},
			expected: "",
		},
		{
			name:     "numeric field coerced to string",
			record:   models.Record{"account_number": 4417},
			spec:     definitions.Extraction{SourceField: "account_number"},
			expected: "4417",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Extract(tt.record, tt.spec))
		})
	}
}

func TestExtract_TemplateMultipleFields(t *testing.T) {
	r := NewResolver(testLogger())
	record := models.Record{"bank_canonical": "Example Bank", "account_type": "Savings"}
	spec := definitions.Extraction{Template: "{bank_canonical} {account_type}"}
	assert.Equal(t, "Example Bank Savings", r.Extract(record, spec))
}

func TestExtract_UnknownExtractorLoggedOnce(t *testing.T) {
	r := NewResolver(testLogger())
	spec := definitions.Extraction{Extractor: "nope", InputFields: []string{"x"}}

	// Repeated extraction with the same unknown name stays non-fatal and
	// marks the name warned exactly once.
	for i := 0; i < 3; i++ {
		assert.Equal(t, "", r.Extract(models.Record{"x": "text"}, spec))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.True(t, r.warned["nope"])
	assert.Len(t, r.warned, 1)
}

func TestExpandTemplate_LiteralsOnly(t *testing.T) {
	record := models.Record{"a": "1", "b": "2"}

	text, ok := expandTemplate("{a}-{b} suffix", record)
	assert.True(t, ok)
	assert.Equal(t, "1-2 suffix", text)

	// Unclosed brace is treated as literal text.
	text, ok = expandTemplate("plain {unclosed", record)
	assert.True(t, ok)
	assert.Equal(t, "plain {unclosed", text)
}
