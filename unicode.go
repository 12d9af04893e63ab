package physfs

import "github.com/go-physfs/physfs/internal/ucase"

// UTF8FromUTF16 decodes UTF-16 code units into a UTF-8 string.
func UTF8FromUTF16(units []uint16) string { return ucase.UTF8FromUTF16(units) }

// UTF8ToUTF16 encodes a UTF-8 string to UTF-16 code units.
func UTF8ToUTF16(s string) []uint16 { return ucase.UTF8ToUTF16(s) }

// UTF8FromUCS2 decodes BMP-only UCS-2 code units into UTF-8.
func UTF8FromUCS2(units []uint16) string { return ucase.UTF8FromUCS2(units) }

// UTF8ToUCS2 encodes a UTF-8 string to UCS-2, replacing non-BMP codepoints
// with U+FFFD.
func UTF8ToUCS2(s string) []uint16 { return ucase.UTF8ToUCS2(s) }

// UTF8FromUCS4 decodes UCS-4 (UTF-32) codepoints into UTF-8.
func UTF8FromUCS4(codepoints []rune) string { return ucase.UTF8FromUCS4(codepoints) }

// UTF8ToUCS4 encodes a UTF-8 string into UCS-4 codepoints.
func UTF8ToUCS4(s string) []rune { return ucase.UTF8ToUCS4(s) }

// UTF8FromLatin1 decodes a Latin-1 byte string into UTF-8.
func UTF8FromLatin1(b []byte) string { return ucase.UTF8FromLatin1(b) }

// CaseFold returns the case-folded form of a single codepoint, as up to
// three codepoints.
func CaseFold(cp rune) []rune { return ucase.CaseFold(cp) }

// UTF8Stricmp performs a case-folded comparison of two UTF-8 strings,
// returning -1, 0, or 1.
func UTF8Stricmp(a, b string) int { return ucase.UTF8Stricmp(a, b) }

// UTF16Stricmp performs a case-folded comparison of two UTF-16 strings.
func UTF16Stricmp(a, b []uint16) int { return ucase.UTF16Stricmp(a, b) }

// UCS4Stricmp performs a case-folded comparison of two UCS-4 strings.
func UCS4Stricmp(a, b []rune) int { return ucase.UCS4Stricmp(a, b) }

// ValidUTF8 reports whether s is well-formed UTF-8.
func ValidUTF8(s string) bool { return ucase.ValidUTF8(s) }
