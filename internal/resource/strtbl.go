package resource

import (
	"encoding/binary"

	"tagforce-string/internal/fault"
	"tagforce-string/internal/strbuf"
	"tagforce-string/internal/textenc"

	"github.com/rs/zerolog/log"
)

// stringTableHeader is the 12 byte prologue of a string table:
// count, table start and data start, each a uint32.
const stringTableHeader = 12

// StringTable is the single-file format: header, a table of byte offsets
// relative to the data start, then the deduplicated string blob.
type StringTable struct {
	enc       textenc.Encoding
	data      []byte
	count     int
	tblStart  int
	dataStart int
}

// LoadStringTable takes ownership of data and validates its header.
func LoadStringTable(data []byte, enc textenc.Encoding) (*StringTable, error) {
	const op = "load string table"
	if len(data) < stringTableHeader {
		return nil, fault.Formatf(op, "", "file is %d bytes, shorter than the %d byte header", len(data), stringTableHeader)
	}

	count := u32(data, 0)
	tblStart := u32(data, 4)
	dataStart := u32(data, 8)

	if uint64(tblStart)+uint64(count)*4 > uint64(len(data)) {
		return nil, fault.Formatf(op, "", "offset table of %d entries at %d exceeds file size %d", count, tblStart, len(data))
	}

	if tblStart != stringTableHeader || uint64(dataStart) != uint64(tblStart)+uint64(count)*4 {
		log.Warn().
			Uint32("count", count).
			Uint32("tblstart", tblStart).
			Uint32("datastart", dataStart).
			Msg("Unusual string table header")
	}

	return &StringTable{
		enc:       enc,
		data:      data,
		count:     int(count),
		tblStart:  int(tblStart),
		dataStart: int(dataStart),
	}, nil
}

// BuildStringTable interns seq into a fresh string table.
func BuildStringTable(seq textenc.Sequence, enc textenc.Encoding) *StringTable {
	buf := strbuf.New(enc)
	offsets := make([]uint32, len(seq))
	for i, s := range seq {
		offsets[i] = buf.Intern(s)
	}

	tblStart := stringTableHeader
	dataStart := tblStart + len(seq)*4

	data := make([]byte, dataStart, dataStart+buf.Len())
	binary.LittleEndian.PutUint32(data[0:], uint32(len(seq)))
	binary.LittleEndian.PutUint32(data[4:], uint32(tblStart))
	binary.LittleEndian.PutUint32(data[8:], uint32(dataStart))
	for i, off := range offsets {
		binary.LittleEndian.PutUint32(data[tblStart+i*4:], off)
	}
	data = append(data, buf.Bytes()...)

	return &StringTable{
		enc:       enc,
		data:      data,
		count:     len(seq),
		tblStart:  tblStart,
		dataStart: dataStart,
	}
}

// Len returns the number of strings declared by the header.
func (t *StringTable) Len() int {
	return t.count
}

// At returns string i.
func (t *StringTable) At(i int) []byte {
	if i < 0 || i >= t.count {
		return []byte{}
	}

	off := u32(t.data, t.tblStart+i*4)
	pos := at(uint64(t.dataStart), uint64(off), len(t.data))
	if pos < 0 {
		return []byte{}
	}
	return textenc.CString(t.enc, t.data, pos)
}

// Strings decodes all strings in order.
func (t *StringTable) Strings() textenc.Sequence {
	return Strings(t)
}

// Bytes returns the encoded file.
func (t *StringTable) Bytes() []byte {
	return t.data
}

// Info summarises the header.
func (t *StringTable) Info() Info {
	return Info{
		Format:    "strtbl",
		Encoding:  t.enc.Name(),
		Count:     t.count,
		TableSize: max(t.dataStart-t.tblStart, 0),
		DataSize:  max(len(t.data)-t.dataStart, 0),
		FileSize:  len(t.data),
	}
}
