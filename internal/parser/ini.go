package parser

import (
	"fmt"
	"sort"

	"tagforce-string/internal/fault"
	"tagforce-string/internal/fileio"
	"tagforce-string/internal/textenc"

	"github.com/rs/zerolog/log"
)

// INIParser reads and writes the ini-like section format:
//
//	[0]
//	first string
//	[1]
//	second string
type INIParser struct {
	enc        textenc.Encoding
	writeBOM   bool
	autodetect bool
}

func NewINIParser(enc textenc.Encoding, writeBOM bool) *INIParser {
	return &INIParser{enc: enc, writeBOM: writeBOM}
}

// Autodetect lets a UTF-8 BOM override a UTF-16 parser's encoding.
func (p *INIParser) Autodetect(on bool) *INIParser {
	p.autodetect = on
	return p
}

func (p *INIParser) CanParse(ext string) bool {
	return ext == ".txt"
}

func (p *INIParser) Parse(filePath string) (*Document, error) {
	data, err := fileio.ReadAuto(filePath)
	if err != nil {
		return nil, err
	}

	enc := p.enc
	if p.autodetect {
		enc = Detect(enc, data)
	}

	doc, err := Parse(data, enc)
	if err != nil {
		return nil, fault.WithPath(err, filePath)
	}

	doc.FilePath = filePath
	return doc, nil
}

// Reconstruct renders doc in the encoding it was parsed with.
func (p *INIParser) Reconstruct(doc *Document) ([]byte, error) {
	enc := doc.Encoding
	if enc == nil {
		enc = p.enc
	}
	return Marshal(doc.Strings, enc, p.writeBOM)
}

// Detect picks the encoding to parse data with. Text requested as UTF-16 that
// starts with a UTF-8 BOM is read as UTF-8; everything else keeps enc.
func Detect(enc textenc.Encoding, data []byte) textenc.Encoding {
	if enc == textenc.UTF16LE && textenc.DetectBOM(data) == textenc.BOMUTF8 {
		log.Info().Msg("UTF-8 BOM detected, switching to UTF-8 mode")
		return textenc.UTF8
	}
	return enc
}

// Parse reads every numbered section of data. Sections come out in ascending
// index order regardless of their order in the file; missing indices are
// skipped, so the result is always dense.
func Parse(data []byte, enc textenc.Encoding) (*Document, error) {
	skip, bom, err := textenc.Skip(enc, data)
	if err != nil {
		return nil, fault.Format("parse text", "", err)
	}

	doc := &Document{Encoding: enc, BOM: bom}
	warn := func(line int, msg string) {
		log.Warn().Int("line", line).Str("encoding", enc.Name()).Msg(msg)
		doc.Warnings = append(doc.Warnings, Warning{Line: line, Message: msg})
	}

	if enc.Escaped() && bom == textenc.BOMUnknown {
		warn(0, "Unknown or no BOM detected")
	}

	s := &scanner{enc: enc, data: data, pos: skip}
	sections := make(map[int][]byte)

	for !s.eof() {
		interior, ok := s.header(s.readLine())
		if !ok {
			continue
		}
		line := s.line

		idx, ok := s.index(interior)
		if !ok {
			label, _ := textenc.Decode(enc, interior, nil)
			warn(line, fmt.Sprintf("Non-numeric section [%s] skipped", label))
			continue
		}

		body := s.readBody(enc.Escaped(), warn)
		if _, dup := sections[idx]; dup {
			warn(line, fmt.Sprintf("Section [%d] redefined, keeping the last one", idx))
		}
		sections[idx] = body
	}

	doc.Indices = make([]int, 0, len(sections))
	for idx := range sections {
		doc.Indices = append(doc.Indices, idx)
	}
	sort.Ints(doc.Indices)

	doc.Strings = make(textenc.Sequence, len(doc.Indices))
	for i, idx := range doc.Indices {
		doc.Strings[i] = sections[idx]
	}

	log.Debug().
		Int("sections", len(doc.Strings)).
		Int("warnings", len(doc.Warnings)).
		Msg("Parsed text")

	return doc, nil
}
