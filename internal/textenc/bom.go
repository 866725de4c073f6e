package textenc

import (
	"tagforce-string/internal/fault"

	"github.com/rs/zerolog/log"
)

// BOM classifies the byte order mark found at the start of a stream.
type BOM int

const (
	BOMUnknown BOM = iota
	BOMUTF8
	BOMUTF16LE
	BOMUTF16BE
)

func (b BOM) String() string {
	switch b {
	case BOMUTF8:
		return "UTF-8"
	case BOMUTF16LE:
		return "UTF-16 Little Endian"
	case BOMUTF16BE:
		return "UTF-16 Big Endian"
	default:
		return "Unknown"
	}
}

// Len returns the number of bytes the mark occupies.
func (b BOM) Len() int {
	switch b {
	case BOMUTF8:
		return 3
	case BOMUTF16LE, BOMUTF16BE:
		return 2
	}
	return 0
}

// DetectBOM peeks at the first bytes of p.
func DetectBOM(p []byte) BOM {
	if len(p) >= 3 && p[0] == 0xEF && p[1] == 0xBB && p[2] == 0xBF {
		return BOMUTF8
	}
	if len(p) < 2 {
		return BOMUnknown
	}

	switch uint16(p[0]) | uint16(p[1])<<8 {
	case 0xFEFF:
		return BOMUTF16LE
	case 0xFFFE:
		return BOMUTF16BE
	}
	return BOMUnknown
}

// ForBOM returns the encoding a detected mark selects, or nil when the mark
// selects nothing usable.
func ForBOM(b BOM) Encoding {
	switch b {
	case BOMUTF8:
		return UTF8
	case BOMUTF16LE:
		return UTF16LE
	}
	return nil
}

// Skip validates the prologue of a text stream against enc and returns how many
// bytes to skip. A missing mark is not an error; the caller gets BOMUnknown back
// and decides how loudly to warn. Big-endian input is always rejected.
func Skip(enc Encoding, data []byte) (int, BOM, error) {
	const op = "check bom"

	if !enc.Escaped() {
		// Raw text carries no mark; unless empty it must open with a section header.
		if len(data) > 0 && data[0] != '[' {
			return 0, BOMUnknown, fault.Formatf(op, "", "raw text must start with '['")
		}
		return 0, BOMUnknown, nil
	}

	bom := DetectBOM(data)
	switch {
	case bom == BOMUTF16BE:
		return 0, bom, fault.Formatf(op, "", "big endian BOM detected, only little endian files are supported")
	case bom == BOMUnknown:
		return 0, bom, nil
	case ForBOM(bom) != enc:
		return 0, bom, fault.Formatf(op, "", "%s BOM found while parsing as %s", bom, enc.Name())
	}

	log.Debug().Str("bom", bom.String()).Msg("BOM detected")
	return bom.Len(), bom, nil
}
