package services

import (
	"context"
	"fmt"
	"strings"

	"docqa-service/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Generator sends a finished prompt to a language model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QAPipeline answers a question from the indexed document: retrieve, assemble, generate.
type QAPipeline struct {
	retriever Retriever
	assembler *PromptAssembler
	generator Generator
	k         int
}

func NewQAPipeline(retriever Retriever, assembler *PromptAssembler, generator Generator, k int) *QAPipeline {
	if k <= 0 {
		k = DefaultRetrievalK
	}
	return &QAPipeline{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		k:         k,
	}
}

// Answer returns the model output along with the chunk texts it was given, in retrieval order.
// The model output is returned as-is.
func (p *QAPipeline) Answer(ctx context.Context, question string) (*models.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ErrEmptyQuestion
	}

	ctx, span := otel.Tracer("qa-pipeline").Start(ctx, "qa.answer")
	defer span.End()

	hits, err := p.retriever.Retrieve(ctx, question, p.k)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	sources := make([]string, len(hits))
	scores := make([]float64, len(hits))
	for i, h := range hits {
		sources[i] = h.Chunk.Text
		scores[i] = h.Score
	}
	span.SetAttributes(
		attribute.Int("qa.sources", len(hits)),
		attribute.String("qa.prompt_variant", p.assembler.Variant()),
	)

	prompt := p.assembler.Assemble(question, sources, scores)

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return &models.Answer{Text: text, Sources: sources, Scores: scores}, nil
}
