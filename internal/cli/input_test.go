package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, h *InputHandler, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, h.Run(strings.NewReader(input), &out))
	return out.String()
}

func newIndex(t *testing.T, words ...string) *index.Index {
	t.Helper()
	idx := index.New(index.WithLogger(logger.Discard()))
	for _, w := range words {
		require.NoError(t, idx.AddWord(w))
	}
	return idx
}

func TestRunSearch(t *testing.T) {
	idx := newIndex(t, "cat", "car", "cart", "dog")
	out := run(t, NewInputHandler(idx, 1, 60, 10, false), "ca\n")

	assert.Contains(t, out, "Found 3 suggestions for prefix 'ca'")
	assert.Contains(t, out, "cart")
	assert.NotContains(t, out, "dog")
}

func TestRunAddAndCount(t *testing.T) {
	idx := newIndex(t)
	out := run(t, NewInputHandler(idx, 1, 60, 10, false), "+gopher 1200\n+gopher\n?gopher\n?rust")

	assert.Equal(t, 1201, idx.GetCount("gopher"))
	assert.Contains(t, out, "gopher (count: 1,201)")
	assert.Contains(t, out, "rust (count: 0)")
}

func TestRunRejectsBadCommands(t *testing.T) {
	idx := newIndex(t)
	out := run(t, NewInputHandler(idx, 1, 60, 10, false), "+\n+a b c\n+word many\n+word -1\n?\n")

	assert.Equal(t, 0, idx.GetCount("word"))
	assert.Contains(t, out, "usage: +word [n]")
	assert.Contains(t, out, "Bad count")
	assert.Contains(t, out, "Cannot add")
	assert.Contains(t, out, "usage: ?word")
}

func TestRunFiltering(t *testing.T) {
	idx := newIndex(t, "123abc", "a$b")

	out := run(t, NewInputHandler(idx, 1, 60, 10, false), "123\n")
	assert.Contains(t, out, "filtered prefix")

	out = run(t, NewInputHandler(idx, 1, 60, 10, true), "123\n")
	assert.Contains(t, out, "Found 1 suggestions")
}

func TestRunPrefixBounds(t *testing.T) {
	idx := newIndex(t, "cat")
	out := run(t, NewInputHandler(idx, 2, 3, 10, false), "c\ncatt\n")

	assert.Contains(t, out, "Prefix too short")
	assert.Contains(t, out, "Prefix too long")
}
