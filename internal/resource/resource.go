// Package resource reads and builds the binary text-resource formats: the
// single-file string table, the story-script index/language pair and the
// item table. All layouts are little-endian.
//
// Every codec owns the buffers it loads or builds. Offsets that point outside
// a buffer resolve to an empty string rather than an error.
package resource

import (
	"encoding/binary"

	"tagforce-string/internal/textenc"
)

// Resource is a decoded, indexable list of strings.
type Resource interface {
	// Len returns the number of strings.
	Len() int
	// At returns string i without terminator, or an empty string when i is out of range.
	At(i int) []byte
	// Info summarises the layout.
	Info() Info
}

// Info describes the layout of a loaded or built resource.
type Info struct {
	Format    string
	Encoding  string
	Count     int
	TableSize int
	DataSize  int
	FileSize  int
}

// Strings decodes every string of r in index order.
func Strings(r Resource) textenc.Sequence {
	out := make(textenc.Sequence, r.Len())
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// u32 reads a little-endian uint32 at off, returning 0 when out of range.
func u32(b []byte, off int) uint32 {
	if off < 0 || off+4 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

// at resolves a byte position computed from file fields, clamping anything
// that cannot address data to -1.
func at(base, offset uint64, size int) int {
	pos := base + offset
	if pos >= uint64(size) {
		return -1
	}
	return int(pos)
}
