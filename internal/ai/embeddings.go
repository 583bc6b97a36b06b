package ai

import (
	"context"
	"errors"
	"fmt"

	"docqa-service/internal/telemetry"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	genai "github.com/google/generative-ai-go/genai"
)

// maxBatchSize is the API cap on contents per BatchEmbedContents call.
const maxBatchSize = 100

// GeminiEmbedder embeds document chunks and queries with a Google embedding model.
// Documents and queries use separate model handles because the task type is a field.
type GeminiEmbedder struct {
	docModel   *genai.EmbeddingModel
	queryModel *genai.EmbeddingModel
	modelName  string
	batchSize  int
	breaker    *gobreaker.CircuitBreaker
}

// NewEmbedder shares the underlying client with the generator.
func (gc *GeminiClient) NewEmbedder(modelName string, batchSize int, metrics *telemetry.Metrics) *GeminiEmbedder {
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	docModel := gc.client.EmbeddingModel(modelName)
	docModel.TaskType = genai.TaskTypeRetrievalDocument

	queryModel := gc.client.EmbeddingModel(modelName)
	queryModel.TaskType = genai.TaskTypeRetrievalQuery

	return &GeminiEmbedder{
		docModel:   docModel,
		queryModel: queryModel,
		modelName:  modelName,
		batchSize:  batchSize,
		breaker:    newBreaker("GeminiEmbed", metrics),
	}
}

// EmbedDocuments returns one vector per text, in input order.
func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, span := otel.Tracer("gemini-client").Start(ctx, "gemini.embed_documents")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.embedding_model", e.modelName),
		attribute.Int("gemini.texts", len(texts)),
	)

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		batch := e.docModel.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		result, err := e.breaker.Execute(func() (interface{}, error) {
			resp, err := e.docModel.BatchEmbedContents(ctx, batch)
			if err != nil {
				return nil, withCallerCause(ctx, err)
			}
			return resp, nil
		})
		if err != nil {
			return nil, e.wrap(fmt.Sprintf("batch %d-%d", start, end), err)
		}

		resp := result.(*genai.BatchEmbedContentsResponse)
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding batch %d-%d: got %d vectors for %d texts", start, end, len(resp.Embeddings), end-start)
		}
		for i, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, fmt.Errorf("embedding batch %d-%d: empty vector at %d", start, end, start+i)
			}
			vectors = append(vectors, emb.Values)
		}
	}

	return vectors, nil
}

// EmbedQuery embeds a single question.
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, span := otel.Tracer("gemini-client").Start(ctx, "gemini.embed_query")
	defer span.End()

	result, err := e.breaker.Execute(func() (interface{}, error) {
		resp, err := e.queryModel.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, withCallerCause(ctx, err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, e.wrap("query", err)
	}

	resp := result.(*genai.EmbedContentResponse)
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embedding.Values, nil
}

func (e *GeminiEmbedder) wrap(what string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUpstreamUnavailable
	}
	return fmt.Errorf("embedding %s: %w", what, err)
}
