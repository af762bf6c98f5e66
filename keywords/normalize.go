package keywords

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text and strips diacritics ("Sí, PRECIÓ" -> "si, precio").
// Digits, punctuation and emoji pass through unchanged.
//
// Lowercasing runs before decomposition so characters whose lowercase form
// carries a combining mark (e.g. 'İ') are folded in a single pass, which keeps
// Normalize idempotent.
func Normalize(text string) string {
	t := transform.Chain(
		cases.Lower(language.Und),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
	)

	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}
