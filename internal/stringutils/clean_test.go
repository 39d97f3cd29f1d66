package stringutils_test

import (
	"strings"
	"testing"

	"github.com/habiliai/memorymap/internal/stringutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", stringutils.NormalizeWhitespace("  a\t\tb\n\nc  "))
	assert.Equal(t, "", stringutils.NormalizeWhitespace("   \n\t "))
	assert.Equal(t, "unchanged", stringutils.NormalizeWhitespace("unchanged"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello world", stringutils.Sanitize("hel\x00lo wor\x7fld"))
	assert.Equal(t, "tabs\tand\nnewlines kept", stringutils.Sanitize("tabs\tand\nnewlines kept"))

	clean := "already clean"
	assert.Equal(t, clean, stringutils.Sanitize(clean))
}

func TestSplitChunks(t *testing.T) {
	assert.Nil(t, stringutils.SplitChunks("", 100))

	chunks := stringutils.SplitChunks("short text", 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])

	long := strings.Repeat("word ", 100)
	chunks = stringutils.SplitChunks(long, 50)
	require.Greater(t, len(chunks), 1)

	// chunks split on word boundaries and rejoin to the original words
	var words []string
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
		words = append(words, strings.Fields(chunk)...)
	}
	assert.Len(t, words, 100)
}
