package textutil

import (
	"strings"
	"unicode"

	"tagforce-string/internal/textenc"

	"golang.org/x/text/encoding"
)

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// Printable makes control characters visible for single-line log output.
func Printable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsControl(r):
			b.WriteRune(unicode.ReplacementChar)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Preview renders an encoded string for humans. Raw strings are decoded
// through cp; undecodable input falls back to the bytes as-is.
func Preview(enc textenc.Encoding, cp encoding.Encoding, b []byte, maxLen int) string {
	s, err := textenc.Decode(enc, b, cp)
	if err != nil {
		s = string(b)
	}
	return Truncate(Printable(s), maxLen)
}
