package dictionary

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func newTestLoader(t *testing.T, opts Options) *Loader {
	t.Helper()
	opts.Logger = logger.Discard()
	l, err := NewLoader(opts)
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func chunkBytes(t *testing.T, entries []Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(len(entries))))
	for _, e := range entries {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(e.Word))))
		buf.WriteString(e.Word)
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(e.Count)))
	}
	return buf.Bytes()
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.txt", []byte("# animals\ncat\ncar 3\n\n  cart  \ndog x\nnew york 2\n"))

	l := newTestLoader(t, Options{})
	entries, skipped, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"cat", 1}, {"car", 3}, {"cart", 1}}, entries)
	assert.Equal(t, 2, skipped)
}

func TestLoadChunk(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dict_0001.bin", chunkBytes(t, []Entry{{"alpha", 2}, {"beta", 0}, {"gamma", 7}}))

	l := newTestLoader(t, Options{})
	entries, skipped, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"alpha", 2}, {"gamma", 7}}, entries)
	assert.Equal(t, 1, skipped)
}

func TestLoadChunkTruncated(t *testing.T) {
	dir := t.TempDir()
	data := chunkBytes(t, []Entry{{"alpha", 2}})
	path := writeFile(t, dir, "dict_0002.bin", data[:len(data)-3])

	l := newTestLoader(t, Options{})
	_, _, err := l.LoadFile(path)
	assert.Error(t, err)
}

func TestLoadEncodings(t *testing.T) {
	dir := t.TempDir()

	latin1, err := charmap.ISO8859_1.NewEncoder().String("café\nnaïve\n")
	require.NoError(t, err)
	latinPath := writeFile(t, dir, "latin.txt", []byte(latin1))

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("café\n")
	require.NoError(t, err)
	utf16Path := writeFile(t, dir, "utf16.txt", []byte(utf16))

	bomPath := writeFile(t, dir, "bom.txt", append([]byte("\xef\xbb\xbf"), []byte("café\n")...))

	entries, _, err := newTestLoader(t, Options{Encoding: "latin1"}).LoadFile(latinPath)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"café", 1}, {"naïve", 1}}, entries)

	entries, _, err = newTestLoader(t, Options{Encoding: "UTF_16"}).LoadFile(utf16Path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"café", 1}}, entries)

	entries, _, err = newTestLoader(t, Options{}).LoadFile(bomPath)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"café", 1}}, entries, "BOM should be stripped")
}

func TestNewLoaderUnknownEncoding(t *testing.T) {
	_, err := NewLoader(Options{Encoding: "klingon"})
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestLoadClampsAndSkips(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.txt", []byte("short 500\nwaytoolongword\n"))

	l := newTestLoader(t, Options{MaxCount: 100, MaxWordLen: 8})
	entries, skipped, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"short", 100}}, entries)
	assert.Equal(t, 1, skipped)
}

// TestLoadDirectoryIntoTrie loads a directory of mixed lists and checks counts add up.
func TestLoadDirectoryIntoTrie(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", []byte("cat\ncar 2\n"))
	writeFile(t, dir, "b.txt", []byte("cat\n"))
	writeFile(t, dir, "dict_0001.bin", chunkBytes(t, []Entry{{"dog", 4}}))
	writeFile(t, dir, "notes.md", []byte("ignored"))

	tr := trie.New()
	l := newTestLoader(t, Options{Workers: 2})
	stats, err := l.Load([]string{dir}, tr)
	require.NoError(t, err)

	assert.Equal(t, LoadStats{Files: 3, Words: 4, Occurrences: 8}, stats)
	assert.Equal(t, 2, tr.GetCount("cat"))
	assert.Equal(t, 2, tr.GetCount("car"))
	assert.Equal(t, 4, tr.GetCount("dog"))
	assert.Equal(t, []string{"cat", "car", "dog"}, tr.Search(""))
}

func TestLoadFailsAtomically(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", []byte("cat\n"))
	bad := writeFile(t, dir, "dict_0001.bin", []byte{0xff, 0xff, 0xff, 0xff})

	tr := trie.New()
	_, err := newTestLoader(t, Options{}).Load([]string{good, bad}, tr)
	assert.Error(t, err)
	assert.Equal(t, 0, tr.Len(), "Nothing is added when a file fails")

	_, err = newTestLoader(t, Options{}).Load([]string{filepath.Join(dir, "missing.txt")}, tr)
	assert.Error(t, err)
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "list.txt", []byte("cat\n"))
	bin := writeFile(t, dir, "dict_0001.bin", chunkBytes(t, nil))
	other := writeFile(t, dir, "other.bin", chunkBytes(t, nil))
	tiny := writeFile(t, dir, "dict_0002.bin", []byte{1})

	format, err := DetectFileFormat(txt)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	format, err = DetectFileFormat(bin)
	require.NoError(t, err)
	assert.Equal(t, FormatChunk, format)
	assert.Equal(t, "Chunked Binary Word List", format.String())

	_, err = DetectFileFormat(other)
	assert.Error(t, err)
	_, err = DetectFileFormat(tiny)
	assert.Error(t, err)

	assert.Error(t, ValidateFileFormat(txt, FormatChunk))
}

func TestLoadDetectedEncoding(t *testing.T) {
	dir := t.TempDir()

	utf16, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String("gopher\nrust 2\n")
	require.NoError(t, err)
	utf16Path := writeFile(t, dir, "utf16.txt", []byte(utf16))
	asciiPath := writeFile(t, dir, "ascii.txt", []byte("plain\nwords 3\n"))

	l := newTestLoader(t, Options{Encoding: "auto"})

	entries, _, err := l.LoadFile(utf16Path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"gopher", 1}, {"rust", 2}}, entries)

	entries, _, err = l.LoadFile(asciiPath)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"plain", 1}, {"words", 3}}, entries)
}
