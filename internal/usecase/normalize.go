package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a string to the canonical comparison form used by every
// matching step: trimmed, upper-cased, accents stripped ("Ágata" → "AGATA").
// It is pure, total and idempotent; empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToUpper(strings.TrimSpace(s))

	// NFD-decompose, drop combining marks, recompose
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return folded
}

// normalizeAll maps Normalize over a tag list. A nil list yields nil.
func normalizeAll(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = Normalize(tag)
	}
	return out
}
