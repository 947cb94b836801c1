package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerchantFromDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "pos prefix and store number", input: "POS STARBUCKS #123", expected: "STARBUCKS"},
		{name: "checkcard prefix", input: "CHECKCARD TRADER JOES 552", expected: "TRADER JOES"},
		{name: "square prefix", input: "SQ *BLUE BOTTLE COFFEE", expected: "BLUE BOTTLE COFFEE"},
		{name: "masked card fragment", input: "AMAZON MKTP XXXX4417", expected: "AMAZON MKTP"},
		{name: "no noise", input: "Chipotle", expected: "Chipotle"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, merchantFromDescription([]string{tt.input}))
		})
	}

	assert.Equal(t, "", merchantFromDescription(nil))
}

func TestFirstToken(t *testing.T) {
	assert.Equal(t, "VENMO", firstToken([]string{"VENMO PAYMENT 123"}))
	assert.Equal(t, "", firstToken([]string{"   "}))
	assert.Equal(t, "", firstToken(nil))
}

func TestStripReferenceCodes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trailing hash number", input: "STARBUCKS #123", expected: "STARBUCKS"},
		{name: "multiple trailing codes", input: "UNITED 0162345678901 #44", expected: "UNITED"},
		{name: "code inside name preserved", input: "7-ELEVEN STORE", expected: "7-ELEVEN STORE"},
		{name: "never strips the last word", input: "12345", expected: "12345"},
		{name: "word stops stripping", input: "DELTA AIR 0062 SEATTLE", expected: "DELTA AIR 0062 SEATTLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripReferenceCodes([]string{tt.input}))
		})
	}
}
