package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate turns a display value into a URL-safe slug. Diacritics are folded
// to their base letters and every run of other characters becomes one hyphen.
//
//	"Crème Fraîche" -> "creme-fraiche"
//	"Braai & Fire"  -> "braai-fire"
func Generate(name string) string {
	folded, _, err := transform.String(foldDiacritics(), strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(name))
	}
	return strings.Trim(nonAlnum.ReplaceAllString(folded, "-"), "-")
}

// foldDiacritics is built per call: transform.Transformer values are stateful.
func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
