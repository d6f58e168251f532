package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyInput(t *testing.T) {
	c := NewWindowChunker(1000, 200)
	assert.Empty(t, c.Chunk(""))
}

func TestChunkShortInput(t *testing.T) {
	c := NewWindowChunker(1000, 200)
	chunks := c.Chunk("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunkOverlapRegions(t *testing.T) {
	c := NewWindowChunker(10, 3)
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)
	for i := 0; i < len(chunks)-1; i++ {
		// every chunk except possibly the last is a full window
		assert.Len(t, chunks[i], 10)
		// tail of one chunk is the head of the next
		tail := chunks[i][len(chunks[i])-3:]
		assert.Equal(t, tail, chunks[i+1][:3])
	}
}

func TestChunkReconstructsOriginal(t *testing.T) {
	c := NewWindowChunker(10, 3)
	text := "the quick brown fox jumps over the lazy dog again and again"
	chunks := c.Chunk(text)
	var b strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			b.WriteString(ch)
			continue
		}
		b.WriteString(ch[3:])
	}
	assert.Equal(t, text, b.String())
}

func TestChunkCount(t *testing.T) {
	// for chunkSize > overlap the count is ceil((len-overlap)/(chunkSize-overlap))
	c := NewWindowChunker(10, 2)
	text := strings.Repeat("x", 50)
	chunks := c.Chunk(text)
	want := (50 - 2 + (10 - 2) - 1) / (10 - 2)
	assert.Len(t, chunks, want)
}

func TestChunkKeepsMultibyteRunesIntact(t *testing.T) {
	c := NewWindowChunker(10, 3)
	text := "aaaaaaaaa₹700,000 की पेशकश की गई"
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.True(t, utf8.ValidString(ch))
	}
	// the tenth character is the rupee sign; a byte-indexed window would
	// cut it in half
	assert.Equal(t, "aaaaaaaaa₹", chunks[0])
	for i := 0; i < len(chunks)-1; i++ {
		assert.Len(t, []rune(chunks[i]), 10)
		head := []rune(chunks[i+1])[:3]
		chunk := []rune(chunks[i])
		assert.Equal(t, chunk[len(chunk)-3:], head)
	}
}

func TestChunkGuardsDegenerateOverlap(t *testing.T) {
	// overlap >= chunkSize must not stall the window start
	c := NewWindowChunker(5, 10)
	chunks := c.Chunk(strings.Repeat("y", 23))
	require.NotEmpty(t, chunks)
	total := 0
	for _, ch := range chunks {
		total += len(ch)
	}
	assert.GreaterOrEqual(t, total, 23)
}
