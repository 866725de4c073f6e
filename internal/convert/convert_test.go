package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagforce-string/internal/fault"
	"tagforce-string/internal/fileio"
	"tagforce-string/internal/parser"
	"tagforce-string/internal/resource"
	"tagforce-string/internal/textenc"
	"tagforce-string/internal/textenc/enctest"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

var sample = []string{"Hello", "World", "", "multi\nline", `a[b\c]`, "Hello"}

func writeText(t *testing.T, path string, enc textenc.Encoding, values ...string) []byte {
	data, err := parser.Marshal(enctest.Sequence(t, enc, values...), enc, true)
	require.NoError(t, err)
	require.NoError(t, fileio.WriteFile(path, data))
	return data
}

func readText(t *testing.T, path string, enc textenc.Encoding) []string {
	data, err := fileio.ReadAuto(path)
	require.NoError(t, err)
	doc, err := parser.Parse(data, enc)
	require.NoError(t, err)

	out := make([]string, len(doc.Strings))
	for i, s := range doc.Strings {
		out[i], err = textenc.Decode(enc, s, nil)
		require.NoError(t, err)
	}
	return out
}

func TestStringTableRoundTrip(t *testing.T) {
	for _, enc := range []textenc.Encoding{textenc.UTF16LE, textenc.UTF8} {
		t.Run(enc.Name(), func(t *testing.T) {
			dir := t.TempDir()
			c := New(Options{Encoding: enc, WriteBOM: true, Autodetect: true})

			in := filepath.Join(dir, "in.txt")
			text := writeText(t, in, enc, sample...)

			bin := filepath.Join(dir, "out", "strings.bin")
			require.NoError(t, c.TextToBin(in, bin))

			data, err := fileio.ReadFile(bin)
			require.NoError(t, err)
			tbl, err := resource.LoadStringTable(data, enc)
			require.NoError(t, err)
			assert.Equal(t, len(sample), tbl.Len())

			back := filepath.Join(dir, "back.txt")
			require.NoError(t, c.BinToText(bin, back))

			got, err := fileio.ReadFile(back)
			require.NoError(t, err)
			assert.Equal(t, text, got)
		})
	}
}

func TestStoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New(Options{Encoding: textenc.UTF16LE, WriteBOM: true})

	in := filepath.Join(dir, "story.txt")
	writeText(t, in, textenc.UTF16LE, sample...)

	index := filepath.Join(dir, "storyIe.bin.gz")
	lang := filepath.Join(dir, "storyLe.bin")
	require.NoError(t, c.TextToLang(in, index, lang))

	packed, err := fileio.ReadFile(index)
	require.NoError(t, err)
	_, err = fileio.Decompress(packed)
	require.NoError(t, err)

	out := filepath.Join(dir, "dump.txt")
	require.NoError(t, c.LangToText(index, lang, out))
	assert.Equal(t, sample, readText(t, out, textenc.UTF16LE))
}

func TestItemTable(t *testing.T) {
	t.Run("Escaped", func(t *testing.T) {
		dir := t.TempDir()
		c := New(Options{Encoding: textenc.UTF16LE, WriteBOM: true})

		in := filepath.Join(dir, "items.txt")
		writeText(t, in, textenc.UTF16LE, sample...)

		bin := filepath.Join(dir, "items.bin")
		require.NoError(t, c.TextToRes(in, bin))

		out := filepath.Join(dir, "dump.txt")
		require.NoError(t, c.ResToText(bin, out))
		assert.Equal(t, sample, readText(t, out, textenc.UTF16LE))
	})

	t.Run("Raw", func(t *testing.T) {
		dir := t.TempDir()
		c := New(Options{Encoding: textenc.Raw, WriteBOM: true})

		// UTF-16 payload with an embedded terminator, as found in the game files.
		payload := []byte{'A', 0, 0, 0, 'B', 0}
		tbl := resource.BuildItemTable(textenc.Sequence{payload, []byte("x")}, textenc.Raw)
		bin := filepath.Join(dir, "items.bin")
		require.NoError(t, fileio.WriteFile(bin, tbl.Bytes()))

		out := filepath.Join(dir, "dump.txt")
		require.NoError(t, c.ResToText(bin, out))

		text, err := fileio.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, append(append([]byte("[0]\n"), 'A', 0, 0, 0, 'B'), []byte("\n[1]\nx\n")...), text)

		rebuilt := filepath.Join(dir, "rebuilt.bin")
		require.NoError(t, c.TextToRes(out, rebuilt))

		data, err := fileio.ReadFile(rebuilt)
		require.NoError(t, err)
		items, err := resource.LoadItemTable(data, textenc.Raw)
		require.NoError(t, err)
		assert.Equal(t, []byte{'A', 0, 0, 0, 'B'}, items.RawAt(0))
		assert.Equal(t, []byte("x"), items.RawAt(1))
	})

	t.Run("RawEmpty", func(t *testing.T) {
		dir := t.TempDir()
		c := New(Options{Encoding: textenc.Raw})

		bin := filepath.Join(dir, "empty.bin")
		require.NoError(t, fileio.WriteFile(bin, nil))

		out := filepath.Join(dir, "dump.txt")
		require.NoError(t, c.ResToText(bin, out))
		text, err := fileio.ReadFile(out)
		require.NoError(t, err)
		assert.Empty(t, text)

		rebuilt := filepath.Join(dir, "rebuilt.bin")
		require.NoError(t, c.TextToRes(out, rebuilt))
		data, err := fileio.ReadFile(rebuilt)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("RawNeedsHeader", func(t *testing.T) {
		dir := t.TempDir()
		c := New(Options{Encoding: textenc.Raw})

		in := filepath.Join(dir, "bad.txt")
		require.NoError(t, os.WriteFile(in, []byte("junk\n[0]\nx\n"), 0644))
		err := c.TextToRes(in, filepath.Join(dir, "out.bin"))
		assert.ErrorIs(t, err, fault.ErrFormat)
	})
}

func TestAutodetect(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	writeText(t, in, textenc.UTF8, "Hello", "日本語")

	bin := filepath.Join(dir, "out.bin")
	require.NoError(t, New(Options{Encoding: textenc.UTF16LE, Autodetect: true}).TextToBin(in, bin))

	data, err := fileio.ReadFile(bin)
	require.NoError(t, err)
	tbl, err := resource.LoadStringTable(data, textenc.UTF8)
	require.NoError(t, err)
	assert.Equal(t, []byte("日本語"), tbl.At(1))

	err = New(Options{Encoding: textenc.UTF16LE}).TextToBin(in, bin)
	assert.ErrorIs(t, err, fault.ErrFormat)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	c := New(Options{})

	err := c.BinToText(filepath.Join(dir, "missing.bin"), filepath.Join(dir, "out.txt"))
	assert.ErrorIs(t, err, fault.ErrIO)

	corrupt := filepath.Join(dir, "corrupt.bin")
	require.NoError(t, os.WriteFile(corrupt, []byte{0xFF, 0xFF, 0xFF, 0x0F, 12, 0, 0, 0, 0, 0, 0, 0}, 0644))
	err = c.BinToText(corrupt, filepath.Join(dir, "out.txt"))
	assert.ErrorIs(t, err, fault.ErrFormat)
	assert.Contains(t, err.Error(), corrupt)

	be := filepath.Join(dir, "be.txt")
	require.NoError(t, os.WriteFile(be, []byte{0xFE, 0xFF, 0, '['}, 0644))
	err = New(Options{Autodetect: true}).TextToBin(be, filepath.Join(dir, "out.bin"))
	assert.ErrorIs(t, err, fault.ErrFormat)
}

func writePair(t *testing.T, dir, name string, compressIndex, compressLang bool, values ...string) {
	script := resource.BuildStoryScript(enctest.Sequence(t, textenc.UTF16LE, values...), textenc.UTF16LE)

	index := filepath.Join(dir, name+"Ie.bin")
	if compressIndex {
		index += fileio.GzipExt
	}
	lang := filepath.Join(dir, name+"Le.bin")
	if compressLang {
		lang += fileio.GzipExt
	}
	require.NoError(t, fileio.WriteAuto(index, script.IndexBytes()))
	require.NoError(t, fileio.WriteAuto(lang, script.LangBytes()))
}

func TestFolder(t *testing.T) {
	bins := t.TempDir()
	writePair(t, bins, "duel", false, false, "Attack", "Defend")
	writePair(t, bins, "menu", true, true, "Start", "Quit")
	writePair(t, bins, "talk", true, false, "Hi")
	require.NoError(t, os.WriteFile(filepath.Join(bins, "orphanIe.bin"), []byte{0, 0, 0, 0}, 0644))

	c := New(Options{Encoding: textenc.UTF16LE, WriteBOM: true, Workers: 2, Language: "e"})
	texts := filepath.Join(t.TempDir(), "texts")

	summary, err := c.FolderToText(context.Background(), bins, texts)
	require.NoError(t, err)
	assert.Equal(t, Summary{Converted: 3}, summary)
	assert.NoError(t, summary.Err())

	assert.Equal(t, []string{"Attack", "Defend"}, readText(t, filepath.Join(texts, "duel.txt"), textenc.UTF16LE))
	assert.Equal(t, []string{"Start", "Quit"}, readText(t, filepath.Join(texts, "menu.gz.txt"), textenc.UTF16LE))
	assert.Equal(t, []string{"Hi"}, readText(t, filepath.Join(texts, "talk.gz.txt"), textenc.UTF16LE))

	rebuilt := filepath.Join(t.TempDir(), "bins")
	summary, err = c.TextToFolder(context.Background(), texts, rebuilt)
	require.NoError(t, err)
	assert.Equal(t, Summary{Converted: 3}, summary)

	for _, name := range []string{"duelIe.bin", "duelLe.bin"} {
		want, err := fileio.ReadFile(filepath.Join(bins, name))
		require.NoError(t, err)
		got, err := fileio.ReadFile(filepath.Join(rebuilt, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"menuIe.bin.gz", "menuLe.bin.gz"} {
		want, err := fileio.ReadAuto(filepath.Join(bins, name))
		require.NoError(t, err)
		got, err := fileio.ReadAuto(filepath.Join(rebuilt, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestFolderFailures(t *testing.T) {
	texts := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(texts, "bad.txt"), []byte{0xFE, 0xFF, 0, '['}, 0644))
	writeText(t, filepath.Join(texts, "good.txt"), textenc.UTF16LE, "ok")

	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	c := New(Options{Encoding: textenc.UTF16LE, WriteBOM: true, Workers: 2})
	out := t.TempDir()
	summary, err := c.TextToFolder(context.Background(), texts, out)
	require.NoError(t, err)
	assert.Equal(t, Summary{Converted: 1, Failed: 1}, summary)
	assert.Error(t, summary.Err())
	assert.FileExists(t, filepath.Join(out, "goodLe.bin"))
	assert.Equal(t, 1, strings.Count(logs.String(), `"level":"error"`))
	assert.Contains(t, logs.String(), "bad.txt")

	_, err = c.FolderToText(context.Background(), filepath.Join(texts, "missing"), out)
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	tbl := resource.BuildStringTable(enctest.Sequence(t, textenc.UTF16LE, "Hello\nthere", "World"), textenc.UTF16LE)
	path := filepath.Join(dir, "strings.bin")
	require.NoError(t, fileio.WriteFile(path, tbl.Bytes()))

	c := New(Options{Encoding: textenc.UTF16LE})
	report, err := c.Inspect(FormatStringTable, PreviewOptions{Count: 5, MaxLen: 8}, path)
	require.NoError(t, err)
	assert.Equal(t, "strtbl", report.Format)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, 8, report.TableSize)
	assert.Equal(t, len(tbl.Bytes()), report.FileSize)
	assert.Equal(t, []string{`Hello\nt...`, "World"}, report.Previews)

	_, err = c.Inspect(FormatStory, PreviewOptions{}, path)
	assert.Error(t, err)
	_, err = c.Inspect("bogus", PreviewOptions{}, path)
	assert.Error(t, err)

	raw := New(Options{Encoding: textenc.Raw})
	items := resource.BuildItemTable(textenc.Sequence{{0x82, 0xA0, 0x82, 0xA2}}, textenc.Raw)
	itemsPath := filepath.Join(dir, "items.bin")
	require.NoError(t, fileio.WriteFile(itemsPath, items.Bytes()))

	report, err = raw.Inspect(FormatItems, PreviewOptions{Count: 1, MaxLen: 10, Codepage: japanese.ShiftJIS}, itemsPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"あい"}, report.Previews)
}
