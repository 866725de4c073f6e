package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"tagforce-string/internal/textenc"
)

// Serialize writes seq as "[i]\n<data>\n" sections in enc, optionally preceded by
// the encoding's BOM. In escaped encodings every '\' and '[' in the data is
// prefixed with '\'; raw data is written byte for byte.
func Serialize(w io.Writer, seq textenc.Sequence, enc textenc.Encoding, writeBOM bool) error {
	bw := bufio.NewWriter(w)

	if writeBOM {
		if _, err := bw.Write(enc.BOM()); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}

	var buf []byte
	for i, s := range seq {
		buf = appendASCII(enc, buf[:0], "["+strconv.Itoa(i)+"]\n")
		if enc.Escaped() {
			buf = appendEscaped(enc, buf, s)
		} else {
			buf = append(buf, s...)
		}
		buf = enc.AppendUnit(buf, '\n')

		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write section %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush text: %w", err)
	}
	return nil
}

// SerializeRaw writes unescaped sections without a BOM, for content that is not
// safe to unescape such as legacy multi-byte text.
func SerializeRaw(w io.Writer, seq textenc.Sequence) error {
	return Serialize(w, seq, textenc.Raw, false)
}

// Marshal is Serialize into memory.
func Marshal(seq textenc.Sequence, enc textenc.Encoding, writeBOM bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, seq, enc, writeBOM); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendASCII(enc textenc.Encoding, dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		dst = enc.AppendUnit(dst, uint16(s[i]))
	}
	return dst
}

func appendEscaped(enc textenc.Encoding, dst, s []byte) []byte {
	unit := enc.UnitSize()
	for len(s) > 0 {
		n := enc.CharLen(s)
		if n == unit {
			if u := enc.Unit(s); u == '\\' || u == '[' {
				dst = enc.AppendUnit(dst, '\\')
			}
		}
		dst = append(dst, s[:n]...)
		s = s[n:]
	}
	return dst
}
