package convert

import (
	"fmt"

	"tagforce-string/internal/fault"
	"tagforce-string/internal/fileio"
	"tagforce-string/internal/resource"
	"tagforce-string/internal/textenc"
	"tagforce-string/internal/textutil"

	"golang.org/x/text/encoding"
)

// Resource formats accepted by Inspect.
const (
	FormatStringTable = "strtbl"
	FormatStory       = "story"
	FormatItems       = "items"
)

// Report summarises a binary resource.
type Report struct {
	resource.Info
	Previews []string
}

// PreviewOptions controls how strings are rendered in a Report.
type PreviewOptions struct {
	// Count is the number of leading strings to preview.
	Count int
	// MaxLen truncates each preview, in characters.
	MaxLen int
	// Codepage decodes raw strings; nil shows the bytes as-is.
	Codepage encoding.Encoding
}

// Inspect loads a resource of the given format and summarises it. The story
// format takes the index file followed by the language file.
func (c *Converter) Inspect(format string, preview PreviewOptions, paths ...string) (*Report, error) {
	r, err := c.load(format, paths)
	if err != nil {
		return nil, err
	}

	report := &Report{Info: r.Info()}
	for i := 0; i < min(preview.Count, r.Len()); i++ {
		report.Previews = append(report.Previews, textutil.Preview(c.opts.Encoding, preview.Codepage, r.At(i), preview.MaxLen))
	}
	return report, nil
}

func (c *Converter) load(format string, paths []string) (resource.Resource, error) {
	want := 1
	if format == FormatStory {
		want = 2
	}
	if len(paths) != want {
		return nil, fmt.Errorf("format %s takes %d file(s), got %d", format, want, len(paths))
	}

	if format == FormatStory {
		return c.loadStory(paths[0], paths[1])
	}

	data, err := fileio.ReadAuto(paths[0])
	if err != nil {
		return nil, err
	}

	var r resource.Resource
	switch format {
	case FormatStringTable:
		r, err = resource.LoadStringTable(data, c.opts.Encoding)
	case FormatItems:
		var items *resource.ItemTable
		items, err = resource.LoadItemTable(data, c.opts.Encoding)
		if err == nil && c.opts.Encoding == textenc.Raw {
			r = rawItems{items}
		} else {
			r = items
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fault.WithPath(err, paths[0])
	}
	return r, nil
}

// rawItems shows whole items instead of stopping at the first zero byte.
type rawItems struct {
	*resource.ItemTable
}

func (r rawItems) At(i int) []byte {
	return r.RawAt(i)
}
