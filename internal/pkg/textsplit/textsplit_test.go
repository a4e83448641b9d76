package textsplit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("just a short note", 500, 50)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short note", chunks[0])
}

func TestSplit_EmptyInput(t *testing.T) {
	assert.Nil(t, Split("", 500, 50))
	assert.Nil(t, Split("   \n\n  ", 500, 50))
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	text := "aaaa aaaa.\n\nbbbb bbbb."
	chunks := Split(text, 20, 0)
	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaa aaaa.", chunks[0])
	assert.Equal(t, "bbbb bbbb.", chunks[1])
}

func TestSplit_FallsBackToSentenceBoundary(t *testing.T) {
	text := "Hi there. How are you?"
	chunks := Split(text, 15, 0)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Hi there.", chunks[0])
	assert.Equal(t, "How are you?", chunks[1])
}

func TestSplit_FallsBackToWordBoundary(t *testing.T) {
	text := "one two three four five six seven"
	chunks := Split(text, 12, 0)
	require.True(t, len(chunks) > 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 12)
		assert.False(t, strings.HasPrefix(c, " "))
		assert.False(t, strings.HasSuffix(c, " "))
	}
	assert.Equal(t, "one two", chunks[0])
}

func TestSplit_HardCutWithOverlap(t *testing.T) {
	text := strings.Repeat("a", 25)
	chunks := Split(text, 10, 2)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 9)
}

func TestSplit_ChunksNeverExceedSize(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet. ", 100)
	chunks := Split(text, 500, 50)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 500)
	}
}

func TestSplit_OverlapClampedBelowSize(t *testing.T) {
	// overlap >= size must still make forward progress
	text := strings.Repeat("b", 40)
	chunks := Split(text, 10, 10)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 10)
	}
}
