// Package enctest builds encoded fixtures for tests.
package enctest

import (
	"testing"

	"tagforce-string/internal/textenc"

	"github.com/stretchr/testify/require"
)

// Sequence encodes each value with enc.
func Sequence(tb testing.TB, enc textenc.Encoding, values ...string) textenc.Sequence {
	tb.Helper()

	seq := make(textenc.Sequence, 0, len(values))
	for _, v := range values {
		b, err := textenc.Encode(enc, v)
		require.NoError(tb, err)
		seq = append(seq, b)
	}
	return seq
}
