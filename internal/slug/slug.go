// Package slug derives canonical lookup keys from display names.
//
// A slug is the lowercase, ASCII, hyphen-separated projection of a name used in
// human-readable URLs ("North Barn" -> "north-barn"). Slugs are deterministic
// but not unique: "North Barn" and "north-barn!" share the same slug, and
// callers that look records up by slug must be prepared for more than one hit.
package slug

import "strings"

// Make returns the slug for name.
//
// Surrounding whitespace is trimmed, every maximal run of characters outside
// [A-Za-z0-9] becomes a single hyphen, leading and trailing hyphens are
// dropped and the result is lowercased. Empty input yields "".
//
// Input is taken byte for byte. Accented letters are not folded to ASCII;
// like any other non-alphanumeric rune they act as separators, so a
// precomposed "é" and the decomposed "e" plus combining accent produce
// different slugs.
func Make(name string) string {
	s := strings.TrimSpace(name)

	var b strings.Builder
	b.Grow(len(s))
	gap := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
		default:
			gap = true
			continue
		}
		if gap && b.Len() > 0 {
			b.WriteByte('-')
		}
		gap = false
		b.WriteRune(r)
	}
	return b.String()
}

// Tokens returns the hyphen-separated parts of the slug for s, in order.
// Tokens("North Barn #2") returns ["north", "barn", "2"].
func Tokens(s string) []string {
	sl := Make(s)
	if sl == "" {
		return nil
	}
	return strings.Split(sl, "-")
}

// Equal reports whether a and b have the same non-empty slug.
func Equal(a, b string) bool {
	sa := Make(a)
	return sa != "" && sa == Make(b)
}
