package models

import "strings"

// PageSeparator joins page texts before chunking.
const PageSeparator = "\n\n"

// Document is the single source PDF, split into pages. It is loaded once and never persisted.
type Document struct {
	Path  string
	Pages []string
}

// Text concatenates all pages with PageSeparator.
func (d *Document) Text() string {
	return strings.Join(d.Pages, PageSeparator)
}

// Chunk is a window over the concatenated document text. Start and End are rune offsets.
type Chunk struct {
	Index int
	Text  string
	Start int
	End   int
}

// ScoredChunk is a retrieval hit; higher Score means more similar.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Answer is the generator output together with the context it was given.
type Answer struct {
	Text    string
	Sources []string
	Scores  []float64
}
