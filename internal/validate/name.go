package validate

import "strings"

// NormalizePersonalName canonicalizes a personal name: ideographic spaces
// (U+3000) become ASCII spaces, runs of whitespace collapse to one space
// and the edges are trimmed. The second result reports whether the
// normalized name still contains an interior space, which is required of a
// personal name (family and given parts).
func NormalizePersonalName(name string) (string, bool) {
	replaced := strings.ReplaceAll(name, "　", " ")
	normalized := strings.Join(strings.Fields(replaced), " ")

	return normalized, strings.Contains(normalized, " ")
}
