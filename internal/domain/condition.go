package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var styleTokenFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ConditionStyleToken maps a condition label to the token used in styling
// classes. The display text is unaffected: only the class token is lowered,
// stripped of diacritics, and hyphenated ("bom estado" -> "bom-estado",
// "usado ótimo" -> "usado-otimo").
func ConditionStyleToken(condition string) string {
	folded, _, err := transform.String(styleTokenFolder, condition)
	if err != nil {
		folded = condition
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.Join(strings.Fields(folded), "-")
}
