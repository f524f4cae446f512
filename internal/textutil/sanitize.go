package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// pathSeparatorReplacer maps both separator styles to a dash so a rename never
// changes directories, regardless of the host platform.
var pathSeparatorReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	"\x00", "",
)

// SanitizePathComponent replaces path separators in a single filename
// component with dashes and trims surrounding whitespace. Other characters are
// left untouched; titles are user input and are otherwise used verbatim.
func SanitizePathComponent(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(pathSeparatorReplacer.Replace(name))
}

// Fold returns the Unicode case-folded form of s, suitable as a
// case-insensitive comparison key.
func Fold(s string) string {
	return cases.Fold().String(s)
}
