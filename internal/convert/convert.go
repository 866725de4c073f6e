// Package convert runs the tool's conversion modes: binary resource to text and
// back, for single files and for whole folders of story-script pairs.
package convert

import (
	"bytes"

	"tagforce-string/internal/fault"
	"tagforce-string/internal/fileio"
	"tagforce-string/internal/parser"
	"tagforce-string/internal/resource"
	"tagforce-string/internal/textenc"

	"github.com/rs/zerolog/log"
)

// Options configures a Converter.
type Options struct {
	// Encoding is the encoding of binary strings and text dumps.
	Encoding textenc.Encoding
	// WriteBOM prefixes text dumps with the encoding's byte order mark.
	WriteBOM bool
	// Autodetect lets a UTF-8 BOM switch UTF-16 text input to UTF-8.
	Autodetect bool
	// Workers is the number of concurrent folder conversions.
	Workers int
	// Language is the language letter of story-script pairs in folder mode.
	Language string
}

// Converter converts between binary resources and text dumps.
type Converter struct {
	opts Options
	ini  *parser.INIParser
}

func New(opts Options) *Converter {
	if opts.Encoding == nil {
		opts.Encoding = textenc.UTF16LE
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Converter{
		opts: opts,
		ini:  parser.NewINIParser(opts.Encoding, opts.WriteBOM).Autodetect(opts.Autodetect),
	}
}

// BinToText dumps a string table.
func (c *Converter) BinToText(in, out string) error {
	data, err := fileio.ReadAuto(in)
	if err != nil {
		return err
	}

	tbl, err := resource.LoadStringTable(data, c.opts.Encoding)
	if err != nil {
		return fault.WithPath(err, in)
	}
	return c.writeText(in, out, tbl.Strings())
}

// TextToBin builds a string table from a text dump.
func (c *Converter) TextToBin(in, out string) error {
	doc, err := c.ini.Parse(in)
	if err != nil {
		return err
	}

	tbl := resource.BuildStringTable(doc.Strings, doc.Encoding)
	if err := fileio.WriteAuto(out, tbl.Bytes()); err != nil {
		return err
	}

	logBuilt(in, out, doc)
	return nil
}

// LangToText dumps a story-script index/language pair.
func (c *Converter) LangToText(index, lang, out string) error {
	script, err := c.loadStory(index, lang)
	if err != nil {
		return err
	}
	return c.writeText(lang, out, script.Strings())
}

// TextToLang builds a story-script index/language pair from a text dump.
func (c *Converter) TextToLang(in, index, lang string) error {
	doc, err := c.ini.Parse(in)
	if err != nil {
		return err
	}
	return c.buildStory(in, index, lang, doc)
}

func (c *Converter) buildStory(in, index, lang string, doc *parser.Document) error {
	script := resource.BuildStoryScript(doc.Strings, doc.Encoding)
	if err := fileio.WriteAuto(index, script.IndexBytes()); err != nil {
		return err
	}
	if err := fileio.WriteAuto(lang, script.LangBytes()); err != nil {
		return err
	}

	logBuilt(in, lang, doc)
	return nil
}

// ResToText dumps an item table. In raw mode each item is exported in full with
// only its trailing zero units trimmed, and no escaping is applied.
func (c *Converter) ResToText(in, out string) error {
	data, err := fileio.ReadAuto(in)
	if err != nil {
		return err
	}

	items, err := resource.LoadItemTable(data, c.opts.Encoding)
	if err != nil {
		return fault.WithPath(err, in)
	}

	if c.opts.Encoding == textenc.Raw {
		return c.writeText(in, out, items.RawStrings())
	}
	return c.writeText(in, out, items.Strings())
}

// TextToRes builds an item table from a text dump.
func (c *Converter) TextToRes(in, out string) error {
	doc, err := c.ini.Parse(in)
	if err != nil {
		return err
	}

	items := resource.BuildItemTable(doc.Strings, doc.Encoding)
	if err := fileio.WriteAuto(out, items.Bytes()); err != nil {
		return err
	}

	logBuilt(in, out, doc)
	return nil
}

func (c *Converter) loadStory(index, lang string) (*resource.StoryScript, error) {
	idx, err := fileio.ReadAuto(index)
	if err != nil {
		return nil, err
	}
	text, err := fileio.ReadAuto(lang)
	if err != nil {
		return nil, err
	}
	return resource.LoadStoryScript(idx, text, c.opts.Encoding), nil
}

func (c *Converter) writeText(in, out string, seq textenc.Sequence) error {
	var (
		data []byte
		err  error
	)
	if c.opts.Encoding.Escaped() {
		data, err = parser.Marshal(seq, c.opts.Encoding, c.opts.WriteBOM)
	} else {
		data, err = rawText(seq)
	}
	if err != nil {
		return fault.IO("serialize", out, err)
	}

	if err := fileio.WriteAuto(out, data); err != nil {
		return err
	}

	log.Info().
		Str("input", in).
		Str("output", out).
		Int("strings", len(seq)).
		Str("encoding", c.opts.Encoding.Name()).
		Msg("Exported text")
	return nil
}

func rawText(seq textenc.Sequence) ([]byte, error) {
	var buf bytes.Buffer
	if err := parser.SerializeRaw(&buf, seq); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func logBuilt(in, out string, doc *parser.Document) {
	log.Info().
		Str("input", in).
		Str("output", out).
		Int("strings", len(doc.Strings)).
		Int("warnings", len(doc.Warnings)).
		Str("encoding", doc.Encoding.Name()).
		Msg("Built resource")
}
