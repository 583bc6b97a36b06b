package services

import (
	"fmt"

	"docqa-service/models"
)

const (
	DefaultChunkSize    = 10000
	DefaultChunkOverlap = 1000
)

// Chunker splits text into fixed-size windows that overlap their neighbours.
// Sizes are counted in runes so multi-byte text is never cut mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker rejects a non-positive size and an overlap outside [0, size).
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split returns chunks in text order. Every chunk but the last holds exactly size runes,
// and each chunk starts overlap runes before the end of the previous one.
func (c *Chunker) Split(text string) []models.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]models.Chunk, 0, len(runes)/step+1)

	for start := 0; ; start += step {
		end := min(start+c.size, len(runes))
		chunks = append(chunks, models.Chunk{
			Index: len(chunks),
			Text:  string(runes[start:end]),
			Start: start,
			End:   end,
		})
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// SplitDocument joins the document pages and splits the result.
func (c *Chunker) SplitDocument(doc *models.Document) []models.Chunk {
	return c.Split(doc.Text())
}
