// Package slug derives stable, filesystem- and id-safe slugs from free
// text, used when minting ids for auto-created registry entries.
package slug

import (
	"strings"
	"unicode"
)

// Make lowercases the text and collapses every run of non-alphanumeric
// characters into a single hyphen. Returns "" for text with no
// alphanumeric content.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSep := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
