// Package ucase implements the UTF-8/UTF-16/UCS-2/UCS-4 conversion and
// Unicode case-folding utilities used for path comparisons and name
// storage.
//
// UTF-16/UCS-2 transcoding is built on the standard library's unicode/utf16
// package: surrogate-pair handling is exactly what that package exists for,
// and the wider ecosystem (this module's entire retrieval corpus included)
// does not reach for a third-party library to do it -- stdlib *is* the
// idiomatic choice here. Case folding instead uses golang.org/x/text/cases,
// the ecosystem's standard Unicode text library (see DESIGN.md), because
// Go's stdlib has no case-folding table of its own beyond simple
// unicode.ToUpper/ToLower.
package ucase

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// UTF8FromUTF16 decodes UTF-16 code units (host-endian, as produced by
// UTF8ToUTF16) into a UTF-8 string.
func UTF8FromUTF16(units []uint16) string {
	runes := utf16.Decode(units)

	return string(runes)
}

// UTF8ToUTF16 encodes a UTF-8 string to UTF-16 code units, using the
// replacement character for any codepoint unrepresentable in UTF-16 (none,
// since UTF-16 covers all of Unicode up to U+10FFFF).
func UTF8ToUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// UTF8FromUCS2 decodes UCS-2 code units (BMP-only, no surrogate pairs) into
// UTF-8. Values in the surrogate range (U+D800-U+DFFF) are invalid UCS-2;
// they decode to U+FFFD rather than erroring.
func UTF8FromUCS2(units []uint16) string {
	runes := make([]rune, 0, len(units))
	for _, u := range units {
		if u >= 0xD800 && u <= 0xDFFF { //nolint:mnd
			runes = append(runes, unicode.ReplacementChar)

			continue
		}
		runes = append(runes, rune(u))
	}

	return string(runes)
}

// UTF8ToUCS2 encodes a UTF-8 string to UCS-2, replacing any codepoint
// outside the Basic Multilingual Plane (which UCS-2 cannot represent) with
// U+FFFD.
func UTF8ToUCS2(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF { //nolint:mnd
			out = append(out, uint16(unicode.ReplacementChar))

			continue
		}
		out = append(out, uint16(r))
	}

	return out
}

// UTF8FromUCS4 decodes UCS-4 (= UTF-32) codepoints into UTF-8. UCS-4 is
// representable directly as []rune, so this is exactly string(codepoints).
func UTF8FromUCS4(codepoints []rune) string {
	return string(codepoints)
}

// UTF8ToUCS4 encodes a UTF-8 string into UCS-4 codepoints.
func UTF8ToUCS4(s string) []rune {
	return []rune(s)
}

// UTF8FromLatin1 decodes a Latin-1 (ISO-8859-1) byte string into UTF-8: each
// byte is its own Unicode codepoint by definition.
func UTF8FromLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}

	return string(runes)
}

const maxFoldCodepoints = 3

// folder is shared across calls; cases.Fold is safe for concurrent use
// (it carries no mutable state once constructed).
var folder = cases.Fold(cases.Compact) //nolint:gochecknoglobals

// CaseFold returns the case-folded form of a single codepoint, as up to
// three codepoints. Most codepoints fold to exactly one; a handful (e.g.
// U+0130 LATIN CAPITAL LETTER I WITH DOT ABOVE) fold to two. x/text/cases
// is locale-independent full Unicode case folding and occasionally folds a
// single input rune to more than three codepoints; in that case CaseFold
// falls back to unicode.ToLower to keep the 3-codepoint contract, trading
// a small amount of fidelity for a hard budget the caller can allocate for
// up-front (see DESIGN.md).
func CaseFold(cp rune) []rune {
	folded := folder.String(string(cp))
	runes := []rune(folded)

	if len(runes) == 0 {
		return []rune{cp}
	}

	if len(runes) > maxFoldCodepoints {
		return []rune{unicode.ToLower(cp)}
	}

	return runes
}

// foldString applies CaseFold rune-by-rune, used by the *Stricmp functions
// below so comparisons use identical folding semantics to CaseFold.
func foldString(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, CaseFold(r)...)
	}

	return out
}

// UTF8Stricmp performs a case-folded comparison of two UTF-8 strings,
// returning -1, 0, or 1 like strings.Compare.
func UTF8Stricmp(a, b string) int {
	return compareRunes(foldString(a), foldString(b))
}

// UTF16Stricmp performs a case-folded comparison of two UTF-16 strings.
func UTF16Stricmp(a, b []uint16) int {
	return UTF8Stricmp(UTF8FromUTF16(a), UTF8FromUTF16(b))
}

// UCS4Stricmp performs a case-folded comparison of two UCS-4 strings.
func UCS4Stricmp(a, b []rune) int {
	return UTF8Stricmp(string(a), string(b))
}

func compareRunes(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}

			return 1
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// ValidUTF8 reports whether s is well-formed UTF-8, used by archivers
// deciding whether a stored filename needs Unicode-extra-field recovery.
func ValidUTF8(s string) bool {
	return utf8.ValidString(s)
}
