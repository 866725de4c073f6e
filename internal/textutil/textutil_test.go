package textutil

import (
	"testing"

	"tagforce-string/internal/textenc"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/japanese"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Hello", Truncate("Hello", 5))
	assert.Equal(t, "Hel...", Truncate("Hello", 3))
	assert.Equal(t, "日本...", Truncate("日本語", 2))
	assert.Equal(t, "...", Truncate("abc", -1))
	assert.Equal(t, "", Truncate("", 0))
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, `a\nb\r\tc`, Printable("a\nb\r\tc"))
	assert.Equal(t, "x�y", Printable("x\x01y"))
}

func TestPreview(t *testing.T) {
	b, err := textenc.Encode(textenc.UTF16LE, "Hello\nWorld")
	assert.NoError(t, err)
	assert.Equal(t, `Hello\nWo...`, Preview(textenc.UTF16LE, nil, b, 9))

	sjis := []byte{0x82, 0xA0, 0x82, 0xA2}
	assert.Equal(t, "あい", Preview(textenc.Raw, japanese.ShiftJIS, sjis, 10))
	assert.Equal(t, "abc", Preview(textenc.UTF8, nil, []byte("abc"), 10))
}
