package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"docqa-service/models"
)

// DefaultRetrievalK is the number of chunks returned when Retrieve gets k <= 0.
const DefaultRetrievalK = 5

var ErrEmptyIndex = errors.New("vector index has no entries")

// Embedder turns text into vectors. Document and query embeddings may use
// different task types but must share a dimension.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Retriever returns the chunks most similar to a query, most similar first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error)
}

// VectorIndex is a brute-force cosine similarity index over the document chunks.
// It is built once and never mutated, so concurrent Retrieve calls need no locking.
type VectorIndex struct {
	embedder  Embedder
	chunks    []models.Chunk
	vectors   [][]float64 // L2-normalized
	dimension int
}

// BuildVectorIndex embeds every chunk and returns the finished index.
func BuildVectorIndex(ctx context.Context, embedder Embedder, chunks []models.Chunk) (*VectorIndex, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyIndex
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	raw, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(raw) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(raw), len(chunks))
	}

	idx := &VectorIndex{
		embedder: embedder,
		chunks:   append([]models.Chunk(nil), chunks...),
		vectors:  make([][]float64, len(raw)),
	}

	for i, v := range raw {
		if len(v) == 0 {
			return nil, fmt.Errorf("empty vector for chunk %d", i)
		}
		if idx.dimension == 0 {
			idx.dimension = len(v)
		} else if len(v) != idx.dimension {
			return nil, fmt.Errorf("vector dimension mismatch at chunk %d: got %d, want %d", i, len(v), idx.dimension)
		}
		idx.vectors[i] = normalize(v)
	}

	return idx, nil
}

// Len returns the number of indexed chunks.
func (idx *VectorIndex) Len() int {
	return len(idx.chunks)
}

// Dimension returns the embedding dimension.
func (idx *VectorIndex) Dimension() int {
	return idx.dimension
}

// Retrieve embeds the query and returns at most k chunks ordered by non-increasing score.
// Ties keep chunk order. Embedding errors are returned unchanged apart from wrapping.
func (idx *VectorIndex) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		k = DefaultRetrievalK
	}

	raw, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(raw) != idx.dimension {
		return nil, fmt.Errorf("query vector dimension %d does not match index dimension %d", len(raw), idx.dimension)
	}
	q := normalize(raw)

	scored := make([]models.ScoredChunk, len(idx.chunks))
	for i := range idx.chunks {
		scored[i] = models.ScoredChunk{Chunk: idx.chunks[i], Score: dot(idx.vectors[i], q)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		out[i] = float64(x)
		norm += out[i] * out[i]
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
