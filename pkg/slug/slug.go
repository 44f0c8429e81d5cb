// Package slug turns display names into URL path segments.
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

// dotless i has no decomposition, so it is mapped by hand.
var special = strings.NewReplacer("ı", "i", "ß", "ss", "ø", "o", "æ", "ae", "&", " and ")

// Generate lower-cases name, strips diacritics and joins the remaining
// alphanumeric runs with single hyphens.
//
//	"Çocuk Ürünleri" -> "cocuk-urunleri"
//	"Home & Garden"  -> "home-and-garden"
func Generate(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		folded = strings.ToLower(name)
	}
	folded = special.Replace(folded)
	return strings.Trim(nonAlnum.ReplaceAllString(folded, "-"), "-")
}
