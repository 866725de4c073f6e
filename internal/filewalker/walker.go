package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tagforce-string/internal/fileio"
	"tagforce-string/internal/parser"

	"github.com/rs/zerolog/log"
)

const (
	binExt  = ".bin"
	textExt = ".txt"

	// TypeIndex and TypeLang tag the two halves of a story-script pair.
	TypeIndex = 'I'
	TypeLang  = 'L'
)

// Walker discovers story-script pairs and their text dumps in a folder.
//
// Binary files are named <name><type><lang>.bin or <name><type><lang>.bin.gz,
// where type is I or L and lang is a single language letter (j, e, g, f, i, s).
type Walker struct {
	parser parser.Parser
	lang   string
}

// NewWalker creates a Walker. An empty lang accepts every language.
func NewWalker(p parser.Parser, lang string) *Walker {
	return &Walker{parser: p, lang: lang}
}

// Pair is a matched index/language file pair.
type Pair struct {
	Name       string
	Lang       string
	IndexPath  string
	LangPath   string
	Compressed bool
}

// TextName returns the file name the pair is dumped to: <name>[.gz].txt,
// compressed when the file that led to the pair was.
func (p Pair) TextName() string {
	if p.Compressed {
		return p.Name + fileio.GzipExt + textExt
	}
	return p.Name + textExt
}

// TextEntry is a text dump ready to be rebuilt into a pair.
type TextEntry struct {
	Path       string
	Name       string
	Compressed bool
	Parser     parser.Parser
}

// BinaryNames returns the index and language file names for the entry.
func (e TextEntry) BinaryNames(lang string) (index, language string) {
	ext := binExt
	if e.Compressed {
		ext += fileio.GzipExt
	}
	return e.Name + string(TypeIndex) + lang + ext, e.Name + string(TypeLang) + lang + ext
}

type binName struct {
	name       string
	typ        byte
	lang       string
	compressed bool
}

func splitBinary(file string) (binName, bool) {
	var b binName
	stem := file
	if strings.HasSuffix(stem, fileio.GzipExt) {
		b.compressed = true
		stem = strings.TrimSuffix(stem, fileio.GzipExt)
	}
	if !strings.HasSuffix(stem, binExt) {
		return b, false
	}
	stem = strings.TrimSuffix(stem, binExt)
	if len(stem) < 3 {
		return b, false
	}

	b.name = stem[:len(stem)-2]
	b.typ = stem[len(stem)-2]
	b.lang = stem[len(stem)-1:]
	return b, b.typ == TypeIndex || b.typ == TypeLang
}

func (b binName) partner(compressed bool) string {
	typ := byte(TypeLang)
	if b.typ == TypeLang {
		typ = TypeIndex
	}
	name := b.name + string(typ) + b.lang + binExt
	if compressed {
		name += fileio.GzipExt
	}
	return name
}

func readDir(root string) ([]os.DirEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	return entries, nil
}

// Pairs matches every index file in root with its language file and vice
// versa. The partner is looked up with the same compression first, then with
// the opposite one. Files without a partner are logged and skipped.
func (w *Walker) Pairs(root string) ([]Pair, error) {
	entries, err := readDir(root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var pairs []Pair

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		b, ok := splitBinary(entry.Name())
		if !ok || seen[b.name] {
			continue
		}
		if w.lang != "" && b.lang != w.lang {
			continue
		}
		seen[b.name] = true

		self := filepath.Join(root, entry.Name())
		other := filepath.Join(root, b.partner(b.compressed))
		if _, err := os.Stat(other); err != nil {
			other = filepath.Join(root, b.partner(!b.compressed))
			if _, err := os.Stat(other); err != nil {
				log.Error().Str("file", self).Str("name", b.name).Msg("Can't find matching index/language file")
				continue
			}
		}

		p := Pair{Name: b.name, Lang: b.lang, Compressed: b.compressed}
		if b.typ == TypeIndex {
			p.IndexPath, p.LangPath = self, other
		} else {
			p.IndexPath, p.LangPath = other, self
		}
		pairs = append(pairs, p)
	}

	log.Info().Int("count", len(pairs)).Str("root", root).Msg("Discovered pairs")
	return pairs, nil
}

// Texts lists the text dumps in root the walker's parser accepts.
func (w *Walker) Texts(root string) ([]TextEntry, error) {
	entries, err := readDir(root)
	if err != nil {
		return nil, err
	}

	var texts []TextEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !w.parser.CanParse(ext) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		compressed := fileio.IsCompressed(name)
		if compressed {
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		if name == "" {
			continue
		}

		texts = append(texts, TextEntry{
			Path:       filepath.Join(root, entry.Name()),
			Name:       name,
			Compressed: compressed,
			Parser:     w.parser,
		})
	}

	sort.Slice(texts, func(i, j int) bool { return texts[i].Path < texts[j].Path })
	log.Info().Int("count", len(texts)).Str("root", root).Msg("Discovered files")
	return texts, nil
}
