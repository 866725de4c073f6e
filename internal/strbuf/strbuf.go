// Package strbuf interns encoded strings into a flat, null-terminated buffer.
package strbuf

import (
	"tagforce-string/internal/textenc"
)

const alignment = 4

// Buffer accumulates unique strings and hands out stable byte offsets.
// A Buffer is scoped to a single build and is not safe for concurrent use.
type Buffer struct {
	enc     textenc.Encoding
	data    []byte
	offsets map[string]uint32 // content -> first-assigned offset
	sizes   map[string]uint32 // content -> stored size incl. terminator and padding
}

// New creates an empty buffer for strings in enc.
func New(enc textenc.Encoding) *Buffer {
	return &Buffer{
		enc:     enc,
		offsets: make(map[string]uint32),
		sizes:   make(map[string]uint32),
	}
}

// Intern returns the offset of s, appending it with a terminator if unseen.
func (b *Buffer) Intern(s []byte) uint32 {
	return b.add(s, false)
}

// InternAligned is Intern, but pads the buffer with zeros to a 4-byte boundary
// after appending. The padded length is reported by AlignedSize.
func (b *Buffer) InternAligned(s []byte) uint32 {
	return b.add(s, true)
}

func (b *Buffer) add(s []byte, aligned bool) uint32 {
	key := string(s)
	if off, ok := b.offsets[key]; ok {
		return off
	}

	off := uint32(len(b.data))
	b.data = append(b.data, s...)
	b.data = append(b.data, make([]byte, b.enc.UnitSize())...)
	if aligned {
		if rem := len(b.data) % alignment; rem != 0 {
			b.data = append(b.data, make([]byte, alignment-rem)...)
		}
	}

	b.offsets[key] = off
	b.sizes[key] = uint32(len(b.data)) - off
	return off
}

// Offset returns the offset previously assigned to s.
func (b *Buffer) Offset(s []byte) (uint32, bool) {
	off, ok := b.offsets[string(s)]
	return off, ok
}

// AlignedSize returns the stored size of s: encoded length, terminator and any
// alignment padding.
func (b *Buffer) AlignedSize(s []byte) (uint32, bool) {
	size, ok := b.sizes[string(s)]
	return size, ok
}

// Len returns the current size of the buffer in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Count returns the number of distinct strings stored.
func (b *Buffer) Count() int {
	return len(b.offsets)
}

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}
