package resource

import (
	"encoding/binary"

	"tagforce-string/internal/strbuf"
	"tagforce-string/internal/textenc"

	"github.com/rs/zerolog/log"
)

// StoryScript is the two-file format: an index of code-unit offsets and the
// language blob they point into. The two halves are only meaningful together.
type StoryScript struct {
	enc   textenc.Encoding
	index []uint32
	lang  []byte
}

// LoadStoryScript decodes an index/language pair. Trailing index bytes that do
// not form a whole entry are ignored.
func LoadStoryScript(index, lang []byte, enc textenc.Encoding) *StoryScript {
	if rem := len(index) % 4; rem != 0 {
		log.Warn().Int("size", len(index)).Int("ignored", rem).Msg("Index file size is not a multiple of 4")
	}

	entries := make([]uint32, len(index)/4)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint32(index[i*4:])
	}

	return &StoryScript{enc: enc, index: entries, lang: lang}
}

// BuildStoryScript interns seq into a new index/language pair. Index entries are
// code-unit offsets, so UTF-16 byte offsets are halved.
func BuildStoryScript(seq textenc.Sequence, enc textenc.Encoding) *StoryScript {
	buf := strbuf.New(enc)
	unit := uint32(enc.UnitSize())

	index := make([]uint32, len(seq))
	for i, s := range seq {
		index[i] = buf.Intern(s) / unit
	}

	return &StoryScript{enc: enc, index: index, lang: buf.Bytes()}
}

// Len returns the number of index entries.
func (s *StoryScript) Len() int {
	return len(s.index)
}

// At returns string i.
func (s *StoryScript) At(i int) []byte {
	if i < 0 || i >= len(s.index) {
		return []byte{}
	}

	pos := at(0, uint64(s.index[i])*uint64(s.enc.UnitSize()), len(s.lang))
	if pos < 0 {
		return []byte{}
	}
	return textenc.CString(s.enc, s.lang, pos)
}

// Strings decodes all strings in order.
func (s *StoryScript) Strings() textenc.Sequence {
	return Strings(s)
}

// IndexBytes encodes the index file.
func (s *StoryScript) IndexBytes() []byte {
	out := make([]byte, len(s.index)*4)
	for i, v := range s.index {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// LangBytes returns the language file.
func (s *StoryScript) LangBytes() []byte {
	return s.lang
}

// Info summarises the pair. TableSize is the index file size.
func (s *StoryScript) Info() Info {
	return Info{
		Format:    "story",
		Encoding:  s.enc.Name(),
		Count:     len(s.index),
		TableSize: len(s.index) * 4,
		DataSize:  len(s.lang),
		FileSize:  len(s.index)*4 + len(s.lang),
	}
}
