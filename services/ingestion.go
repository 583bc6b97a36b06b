package services

import (
	"context"
	"fmt"
	"time"

	"docqa-service/internal/config"
	"docqa-service/internal/logger"
	"docqa-service/internal/telemetry"
)

// BuildIndex loads the configured document, chunks it and embeds every chunk.
// Any failure here is fatal to startup.
func BuildIndex(ctx context.Context, cfg *config.Config, embedder Embedder, metrics *telemetry.Metrics) (idx *VectorIndex, err error) {
	start := time.Now()
	chunkCount := 0
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordIngestion(time.Since(start).Seconds(), chunkCount, status)
	}()

	doc, err := LoadDocument(cfg.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	chunker, err := NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	chunks := chunker.SplitDocument(doc)
	chunkCount = len(chunks)

	logger.Info("Document chunked",
		"path", doc.Path,
		"pages", len(doc.Pages),
		"chunks", chunkCount,
		"chunk_size", cfg.ChunkSize,
		"chunk_overlap", cfg.ChunkOverlap,
	)

	idx, err = BuildVectorIndex(ctx, embedder, chunks)
	if err != nil {
		return nil, err
	}

	logger.Info("Vector index built",
		"chunks", idx.Len(),
		"dimension", idx.Dimension(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return idx, nil
}
