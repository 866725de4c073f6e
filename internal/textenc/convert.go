package textenc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf16Codec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Codepage resolves the legacy codepage used to display raw strings.
func Codepage(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shift_jis", "shiftjis", "sjis", "cp932":
		return japanese.ShiftJIS, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	case "gbk", "cp936":
		return simplifiedchinese.GBK, nil
	case "euc-kr", "euckr", "cp949":
		return korean.EUCKR, nil
	case "utf8", "utf-8", "":
		return encoding.Nop, nil
	}
	return nil, fmt.Errorf("unknown codepage %q", name)
}

// Decode converts an encoded string to Go's UTF-8 representation. Raw strings are
// interpreted through cp, which may be nil to pass bytes through untouched.
func Decode(enc Encoding, b []byte, cp encoding.Encoding) (string, error) {
	switch enc {
	case UTF16LE:
		out, err := utf16Codec.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decode utf16: %w", err)
		}
		return string(out), nil
	case Raw:
		if cp == nil {
			return string(b), nil
		}
		out, _, err := transform.Bytes(cp.NewDecoder(), b)
		if err != nil {
			return "", fmt.Errorf("decode raw: %w", err)
		}
		return string(out), nil
	default:
		return string(b), nil
	}
}

// Encode converts a Go string to enc. Raw strings are passed through as bytes.
func Encode(enc Encoding, s string) ([]byte, error) {
	if enc != UTF16LE {
		return []byte(s), nil
	}

	out, err := utf16Codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode utf16: %w", err)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
