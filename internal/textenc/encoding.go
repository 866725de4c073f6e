// Package textenc describes the three text encodings a resource can be stored in
// and the code-unit level operations every codec and parser is written against.
//
// Strings are always kept as their native encoded bytes, without terminator:
// UTF-16LE code units, UTF-8 bytes, or raw bytes of some legacy codepage.
package textenc

import (
	"bytes"
	"fmt"
	"strings"
)

// Encoding is the code-unit capability shared by all pipelines.
type Encoding interface {
	// Name returns the canonical encoding name.
	Name() string
	// UnitSize returns the width of one code unit (and of the terminator) in bytes.
	UnitSize() int
	// CharLen returns the byte length of the first logical character of b.
	// Surrogate pairs and multi-byte UTF-8 sequences are never split.
	CharLen(b []byte) int
	// Unit returns the value of the first code unit of b.
	Unit(b []byte) uint16
	// AppendUnit appends a single code unit to dst.
	AppendUnit(dst []byte, u uint16) []byte
	// BOM returns the byte order mark written for this encoding, if any.
	BOM() []byte
	// Escaped reports whether text sections escape '[' and '\'.
	Escaped() bool
}

// Sequence is an ordered list of encoded strings, indexed by position.
type Sequence [][]byte

// The supported encodings.
var (
	UTF16LE Encoding = utf16le{}
	UTF8    Encoding = utf8enc{}
	Raw     Encoding = rawenc{}
)

// Lookup resolves an encoding by name.
func Lookup(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf16", "utf-16", "utf16le", "utf-16le", "u16", "":
		return UTF16LE, nil
	case "utf8", "utf-8", "u8":
		return UTF8, nil
	case "raw", "bytes", "legacy":
		return Raw, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", name)
}

// CString returns a copy of the string starting at byte offset off in data, up to
// the first terminator unit. Offsets at or past the end yield an empty string.
func CString(enc Encoding, data []byte, off int) []byte {
	if off < 0 || off >= len(data) {
		return []byte{}
	}

	return bytes.Clone(data[off : off+TerminatorIndex(enc, data[off:])])
}

// TerminatorIndex returns the byte index of the first terminator unit in b, or the
// length of the last whole unit when b is not terminated.
func TerminatorIndex(enc Encoding, b []byte) int {
	size := enc.UnitSize()
	if size == 1 {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			return i
		}
		return len(b)
	}

	i := 0
	for ; i+size <= len(b); i += size {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return i
}

// ---------------------------------- UTF-16LE ----------------------------------

type utf16le struct{}

func (utf16le) Name() string  { return "utf16le" }
func (utf16le) UnitSize() int { return 2 }
func (utf16le) Escaped() bool { return true }
func (utf16le) BOM() []byte   { return []byte{0xFF, 0xFE} }

func (utf16le) Unit(b []byte) uint16 {
	switch {
	case len(b) >= 2:
		return uint16(b[0]) | uint16(b[1])<<8
	case len(b) == 1:
		return uint16(b[0])
	}
	return 0
}

func (e utf16le) CharLen(b []byte) int {
	if len(b) < 2 {
		return len(b)
	}

	hi := e.Unit(b)
	if hi >= 0xD800 && hi <= 0xDBFF && len(b) >= 4 {
		if lo := e.Unit(b[2:]); lo >= 0xDC00 && lo <= 0xDFFF {
			return 4
		}
	}
	return 2
}

func (utf16le) AppendUnit(dst []byte, u uint16) []byte {
	return append(dst, byte(u), byte(u>>8))
}

// ----------------------------------- UTF-8 ------------------------------------

type utf8enc struct{}

func (utf8enc) Name() string  { return "utf8" }
func (utf8enc) UnitSize() int { return 1 }
func (utf8enc) Escaped() bool { return true }
func (utf8enc) BOM() []byte   { return []byte{0xEF, 0xBB, 0xBF} }

func (utf8enc) Unit(b []byte) uint16 {
	if len(b) == 0 {
		return 0
	}
	return uint16(b[0])
}

// CharLen follows the lead byte, only consuming continuation bytes that are
// actually present, so malformed input degrades to single bytes.
func (utf8enc) CharLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}

	var want int
	switch lead := b[0]; {
	case lead < 0x80:
		return 1
	case lead&0xE0 == 0xC0:
		want = 2
	case lead&0xF0 == 0xE0:
		want = 3
	case lead&0xF8 == 0xF0:
		want = 4
	default:
		return 1
	}

	n := 1
	for n < want && n < len(b) && b[n]&0xC0 == 0x80 {
		n++
	}
	return n
}

func (utf8enc) AppendUnit(dst []byte, u uint16) []byte {
	return append(dst, byte(u))
}

// ------------------------------------ Raw -------------------------------------

type rawenc struct{}

func (rawenc) Name() string  { return "raw" }
func (rawenc) UnitSize() int { return 1 }
func (rawenc) Escaped() bool { return false }
func (rawenc) BOM() []byte   { return nil }

func (rawenc) Unit(b []byte) uint16 {
	if len(b) == 0 {
		return 0
	}
	return uint16(b[0])
}

func (rawenc) CharLen(b []byte) int {
	return min(len(b), 1)
}

func (rawenc) AppendUnit(dst []byte, u uint16) []byte {
	return append(dst, byte(u))
}
