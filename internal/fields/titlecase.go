package fields

import (
	"strings"
	"unicode"
)

// TitleCase uppercases the first letter of every word and lowercases the rest.
// A word boundary is any non-letter, so "invoice no." -> "Invoice No." and
// "bill-to" -> "Bill-To". The exact casing rules matter: normalized labels are
// the map keys, so two spellings of the same label must collapse to one key.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
