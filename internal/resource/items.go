package resource

import (
	"encoding/binary"

	"tagforce-string/internal/fault"
	"tagforce-string/internal/strbuf"
	"tagforce-string/internal/textenc"

	"github.com/rs/zerolog/log"
)

const itemSize = 8

// Item locates one string of an item table. Offset is absolute; Size covers the
// terminator and alignment padding.
type Item struct {
	Offset uint32
	Size   uint32
}

// ItemTable is the text-resource format: an item array at the start of the file
// followed by 4-byte aligned strings. There is no count field; the first item
// must point right past the table.
type ItemTable struct {
	enc   textenc.Encoding
	data  []byte
	items []Item
}

// LoadItemTable takes ownership of data and reads its item array.
func LoadItemTable(data []byte, enc textenc.Encoding) (*ItemTable, error) {
	const op = "load item table"
	if len(data) == 0 {
		return &ItemTable{enc: enc, data: data}, nil
	}
	if len(data) < itemSize {
		return nil, fault.Formatf(op, "", "file is %d bytes, shorter than one item", len(data))
	}

	first := u32(data, 0)
	if first%itemSize != 0 {
		log.Warn().Uint32("offset", first).Msg("First item offset is not a multiple of the item size")
	}

	count := int(first / itemSize)
	if uint64(count)*itemSize > uint64(len(data)) {
		return nil, fault.Formatf(op, "", "item table of %d entries exceeds file size %d", count, len(data))
	}

	items := make([]Item, count)
	for i := range items {
		items[i] = Item{
			Offset: u32(data, i*itemSize),
			Size:   u32(data, i*itemSize+4),
		}
	}

	return &ItemTable{enc: enc, data: data, items: items}, nil
}

// BuildItemTable interns seq with 4-byte alignment. Items keep the input order.
func BuildItemTable(seq textenc.Sequence, enc textenc.Encoding) *ItemTable {
	buf := strbuf.New(enc)
	tableSize := uint32(len(seq) * itemSize)

	items := make([]Item, len(seq))
	for i, s := range seq {
		off := buf.InternAligned(s)
		size, _ := buf.AlignedSize(s)
		items[i] = Item{Offset: off + tableSize, Size: size}
	}

	data := make([]byte, tableSize, int(tableSize)+buf.Len())
	for i, it := range items {
		binary.LittleEndian.PutUint32(data[i*itemSize:], it.Offset)
		binary.LittleEndian.PutUint32(data[i*itemSize+4:], it.Size)
	}
	data = append(data, buf.Bytes()...)

	return &ItemTable{enc: enc, data: data, items: items}
}

// Len returns the number of items.
func (t *ItemTable) Len() int {
	return len(t.items)
}

// Items returns the item array.
func (t *ItemTable) Items() []Item {
	return t.items
}

// span returns the clamped byte range of item i, or ok=false when it lies
// outside the file.
func (t *ItemTable) span(i int) (start, end int, ok bool) {
	if i < 0 || i >= len(t.items) {
		return 0, 0, false
	}

	it := t.items[i]
	start = at(0, uint64(it.Offset), len(t.data))
	if start < 0 {
		return 0, 0, false
	}
	end = int(min(uint64(it.Offset)+uint64(it.Size), uint64(len(t.data))))
	return start, end, true
}

// At returns string i up to its first terminator.
func (t *ItemTable) At(i int) []byte {
	start, end, ok := t.span(i)
	if !ok {
		return []byte{}
	}
	return textenc.CString(t.enc, t.data[:end], start)
}

// RawAt returns the full declared extent of item i with trailing zero units
// removed. Embedded terminators are kept; an all-zero item yields empty.
func (t *ItemTable) RawAt(i int) []byte {
	start, end, ok := t.span(i)
	if !ok {
		return []byte{}
	}

	unit := t.enc.UnitSize()
	end = start + (end-start)/unit*unit
	for end-unit >= start && isZero(t.data[end-unit:end]) {
		end -= unit
	}

	out := make([]byte, end-start)
	copy(out, t.data[start:end])
	return out
}

// Strings decodes all strings in order.
func (t *ItemTable) Strings() textenc.Sequence {
	return Strings(t)
}

// RawStrings returns every item via RawAt.
func (t *ItemTable) RawStrings() textenc.Sequence {
	out := make(textenc.Sequence, len(t.items))
	for i := range out {
		out[i] = t.RawAt(i)
	}
	return out
}

// Bytes returns the encoded file.
func (t *ItemTable) Bytes() []byte {
	return t.data
}

// Info summarises the layout.
func (t *ItemTable) Info() Info {
	table := len(t.items) * itemSize
	return Info{
		Format:    "items",
		Encoding:  t.enc.Name(),
		Count:     len(t.items),
		TableSize: table,
		DataSize:  max(len(t.data)-table, 0),
		FileSize:  len(t.data),
	}
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
