package extract

import (
	"strings"
	"unicode"
)

// Func is a named extractor. Inputs arrive in the order the definition's
// input_fields declares them; missing record fields arrive as "".
//
// The table of extractors is a fixed allow-list compiled into the
// binary. Configuration picks an extractor by name; it can never supply
// code.
type Func func(inputs []string) string

var builtins = map[string]Func{
	"merchant_from_description": merchantFromDescription,
	"first_token":               firstToken,
	"strip_reference_codes":     stripReferenceCodes,
}

// processorPrefixes are leading tokens card processors prepend to
// merchant descriptors.
var processorPrefixes = []string{
	"POS ",
	"DEBIT CARD PURCHASE ",
	"CHECKCARD ",
	"SQ *",
	"TST* ",
	"PAYPAL *",
}

// merchantFromDescription cleans a raw card-statement descriptor down to
// the merchant portion: processor prefixes, trailing store numbers and
// reference codes are removed.
func merchantFromDescription(inputs []string) string {
	if len(inputs) == 0 {
		return ""
	}
	text := strings.TrimSpace(inputs[0])
	for _, p := range processorPrefixes {
		if strings.HasPrefix(strings.ToUpper(text), p) {
			text = strings.TrimSpace(text[len(p):])
			break
		}
	}
	return stripReferenceCodes([]string{text})
}

// firstToken returns the first whitespace-delimited token of the first
// input.
func firstToken(inputs []string) string {
	if len(inputs) == 0 {
		return ""
	}
	fields := strings.Fields(inputs[0])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// stripReferenceCodes drops trailing tokens that look like store or
// transaction references: "#123", all-digit runs, or masked card
// fragments like "XXXX1234". It stops at the first token from the right
// that looks like a word, so codes inside a name are preserved.
func stripReferenceCodes(inputs []string) string {
	if len(inputs) == 0 {
		return ""
	}
	tokens := strings.Fields(inputs[0])
	for len(tokens) > 1 && isReferenceCode(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

func isReferenceCode(token string) bool {
	token = strings.TrimPrefix(token, "#")
	if token == "" {
		return true
	}
	digits := 0
	for _, r := range token {
		if unicode.IsDigit(r) {
			digits++
			continue
		}
		if r != 'X' && r != 'x' && r != '*' && r != '-' {
			return false
		}
	}
	return digits > 0
}
