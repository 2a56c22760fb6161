// Package encoding provides text normalization for names that end up in
// exported file paths.
package encoding

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultName is used when a name normalizes to nothing.
const DefaultName = "asset"

// maxNameLength caps the base name so derived file names stay portable.
const maxNameLength = 96

// FoldAccents strips combining marks: "Café" becomes "Cafe".
// Returns the original string if the transform fails.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// SafeFileName turns an arbitrary label (often a generation prompt) into a
// base name usable on every filesystem: accents folded, anything outside
// [A-Za-z0-9._-] replaced by '_', runs collapsed, and the result trimmed.
func SafeFileName(s string) string {
	s = FoldAccents(s)

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		ok := r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.')
		if ok {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	name := strings.Trim(b.String(), "_.-")
	if len(name) > maxNameLength {
		name = strings.TrimRight(name[:maxNameLength], "_.-")
	}
	if name == "" {
		return DefaultName
	}
	return name
}
