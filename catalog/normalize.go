package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds a product or disease name for lookups: accents removed,
// case folded, inner whitespace collapsed. "Szczepionka  3 w 1" and
// "szczepionka 3 w 1" compare equal.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, name)
	if err != nil {
		result = name
	}
	result = cases.Fold().String(result)
	return strings.Join(strings.Fields(result), " ")
}

// isMn reports whether r is a non-spacing mark.
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
