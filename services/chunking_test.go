package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa-service/models"
)

func TestNewChunker_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"defaults", DefaultChunkSize, DefaultChunkOverlap, false},
		{"no overlap", 10, 0, false},
		{"zero size", 0, 0, true},
		{"negative overlap", 10, -1, true},
		{"overlap equals size", 10, 10, true},
		{"overlap larger than size", 10, 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChunker(tt.size, tt.overlap)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestChunker_EmptyText(t *testing.T) {
	c, err := NewChunker(10, 2)
	require.NoError(t, err)
	assert.Empty(t, c.Split(""))
}

func TestChunker_ShortTextIsOneChunk(t *testing.T) {
	c, err := NewChunker(100, 10)
	require.NoError(t, err)

	chunks := c.Split("hello world")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 11, chunks[0].End)
}

func TestChunker_ExactWindows(t *testing.T) {
	c, err := NewChunker(4, 1)
	require.NoError(t, err)

	chunks := c.Split("abcdefghij")
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
		assert.Equal(t, i, ch.Index)
	}
	assert.Equal(t, []string{"abcd", "defg", "ghij"}, texts)
}

func TestChunker_SizeAndOverlapProperties(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 500)
	sizes := []struct{ size, overlap int }{
		{1000, 100},
		{300, 0},
		{257, 31},
		{DefaultChunkSize, DefaultChunkOverlap},
	}

	for _, s := range sizes {
		c, err := NewChunker(s.size, s.overlap)
		require.NoError(t, err)
		chunks := c.Split(text)
		require.NotEmpty(t, chunks)

		for i, ch := range chunks {
			n := utf8.RuneCountInString(ch.Text)
			assert.LessOrEqual(t, n, s.size)
			if i < len(chunks)-1 {
				assert.Equal(t, s.size, n, "only the final chunk may be shorter")
			}
			if i > 0 {
				prev := chunks[i-1]
				assert.Equal(t, s.overlap, prev.End-ch.Start, "overlap between %d and %d", i-1, i)
				prevRunes := []rune(prev.Text)
				curRunes := []rune(ch.Text)
				assert.Equal(t, string(prevRunes[len(prevRunes)-s.overlap:]), string(curRunes[:s.overlap]))
			}
		}

		assert.Equal(t, 0, chunks[0].Start)
		assert.Equal(t, utf8.RuneCountInString(text), chunks[len(chunks)-1].End)
	}
}

func TestChunker_NoRedundantTail(t *testing.T) {
	c, err := NewChunker(5, 2)
	require.NoError(t, err)

	// 8 runes: windows [0,5) and [3,8) cover everything; a third window would sit inside the second.
	chunks := c.Split("abcdefgh")
	require.Len(t, chunks, 2)
	assert.Equal(t, "defgh", chunks[1].Text)
}

func TestChunker_MultiByteRunes(t *testing.T) {
	c, err := NewChunker(3, 1)
	require.NoError(t, err)

	chunks := c.Split("héllo wörld")
	for _, ch := range chunks {
		assert.True(t, utf8.ValidString(ch.Text))
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Text), 3)
	}
}

func TestChunker_SplitDocument(t *testing.T) {
	c, err := NewChunker(100, 10)
	require.NoError(t, err)

	doc := &models.Document{Pages: []string{"page one", "page two"}}
	chunks := c.SplitDocument(doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, "page one\n\npage two", chunks[0].Text)
}
