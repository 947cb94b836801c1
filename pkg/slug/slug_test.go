package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "simple", text: "Starbucks", expected: "starbucks"},
		{name: "spaces and punctuation", text: "TRADER JOE'S #552", expected: "trader-joe-s-552"},
		{name: "leading and trailing junk", text: "  **Acme Corp**  ", expected: "acme-corp"},
		{name: "unicode letters kept", text: "Café Velo", expected: "café-velo"},
		{name: "no alphanumerics", text: "***", expected: ""},
		{name: "empty", text: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.text))
		})
	}
}
