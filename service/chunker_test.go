package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("  um texto curto  ", 6000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "um texto curto", chunks[0])
}

func TestSplitTextEmptyInput(t *testing.T) {
	assert.Empty(t, SplitText("", 6000, 200))
	assert.Empty(t, SplitText("   \n\t  ", 6000, 200))
}

func TestSplitTextHardCut(t *testing.T) {
	// No newlines nor sentence ends: the chunker must cut at maxSize
	text := strings.Repeat("a", 6200)
	chunks := SplitText(text, 6000, 200)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 6000)
	// Second chunk restarts at 6000-200 and runs to the end
	assert.Len(t, chunks[1], 400)
}

func TestSplitTextPrefersNewlineBoundary(t *testing.T) {
	// A newline late in the window should win over the hard cut
	text := strings.Repeat("a", 900) + "\n" + strings.Repeat("b", 400)
	chunks := SplitText(text, 1000, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, strings.Repeat("a", 900), chunks[0])
}

func TestSplitTextPrefersSentenceBoundary(t *testing.T) {
	text := strings.Repeat("a", 800) + ". " + strings.Repeat("b", 500)
	chunks := SplitText(text, 1000, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, strings.Repeat("a", 800)+".", chunks[0])
}

func TestSplitTextNeighboursOverlap(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := SplitText(text, 1000, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		// Each chunk starts with the tail of its predecessor
		assert.True(t, strings.HasPrefix(chunks[i], prev[len(prev)-100:]))
	}
}

func TestSplitTextNeverTearsMultibyteRunes(t *testing.T) {
	// Odd maxSize over two-byte runs: both the hard cut and the overlap
	// restart would land mid-rune without snapping
	text := strings.Repeat("é", 400)
	chunks := SplitText(text, 501, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8: %q", i, chunk)
	}
}

func TestSplitTextMultibyteAroundBoundaries(t *testing.T) {
	// Sentence boundary late in the window, accented text on both sides
	text := strings.Repeat("ã", 390) + ". " + strings.Repeat("ç", 300)
	chunks := SplitText(text, 1001, 101)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, len(chunk), 1001)
	}
	assert.Equal(t, strings.Repeat("ã", 390)+".", chunks[0])
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("linha de texto juridico\n", 400)
	chunks := SplitText(text, 1000, 100)

	require.NotEmpty(t, chunks)
	joined := strings.Join(chunks, "")
	assert.Contains(t, joined, "linha de texto juridico")
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}
