package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"docqa-service/internal/config"

	"gopkg.in/yaml.v3"
)

const (
	// RankedScoreThreshold is the minimum similarity a ranked candidate must reach.
	RankedScoreThreshold = 0.5
	// RankedMaxCandidates caps the ranked answer list.
	RankedMaxCandidates = 5
	// NoRelevantAnswers is what the ranked template asks the model to reply when nothing qualifies.
	NoRelevantAnswers = "no relevant answers found"
)

const basicTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer. Keep the answer as concise as possible. Always say "thanks for asking!" at the end of the answer.
{context}
Question: {question}
Helpful Answer:`

const rankedTemplate = `Use the following pieces of context to answer the question at the end. Each piece is numbered and shows its similarity score to the question.
Return up to {max_candidates} answer candidates as a numbered list, best first, and show the similarity score of the context each candidate comes from. Only include candidates whose score is at least {threshold}. If no candidate qualifies, reply exactly "{no_answer}".
Keep every answer as concise as possible and don't try to make up an answer. Always say "thanks for asking!" at the end.
{context}
Question: {question}
Helpful Answer:`

// PromptTemplates holds the template text for each prompt variant.
type PromptTemplates struct {
	Basic  string `yaml:"basic"`
	Ranked string `yaml:"ranked"`
}

// DefaultPromptTemplates returns the built-in templates.
func DefaultPromptTemplates() PromptTemplates {
	return PromptTemplates{Basic: basicTemplate, Ranked: rankedTemplate}
}

// LoadPromptTemplates reads template overrides from a YAML file. Variants missing
// from the file keep their built-in text.
func LoadPromptTemplates(path string) (PromptTemplates, error) {
	templates := DefaultPromptTemplates()

	data, err := os.ReadFile(path)
	if err != nil {
		return templates, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var overrides PromptTemplates
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return templates, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	if strings.TrimSpace(overrides.Basic) != "" {
		templates.Basic = overrides.Basic
	}
	if strings.TrimSpace(overrides.Ranked) != "" {
		templates.Ranked = overrides.Ranked
	}

	if err := templates.Validate(); err != nil {
		return templates, err
	}
	return templates, nil
}

// Validate checks that every template has somewhere to put the context and the question.
func (t PromptTemplates) Validate() error {
	for name, tmpl := range map[string]string{"basic": t.Basic, "ranked": t.Ranked} {
		for _, placeholder := range []string{"{context}", "{question}"} {
			if !strings.Contains(tmpl, placeholder) {
				return fmt.Errorf("%s prompt template is missing %s", name, placeholder)
			}
		}
	}
	return nil
}

// PromptAssembler renders retrieved chunks and a question into a single prompt.
// It holds no state besides the template and is safe for concurrent use.
type PromptAssembler struct {
	variant  string
	template string
}

// NewPromptAssembler picks the template for variant.
func NewPromptAssembler(variant string, templates PromptTemplates) (*PromptAssembler, error) {
	switch variant {
	case config.PromptVariantBasic:
		return &PromptAssembler{variant: variant, template: templates.Basic}, nil
	case config.PromptVariantRanked:
		return &PromptAssembler{variant: variant, template: templates.Ranked}, nil
	default:
		return nil, fmt.Errorf("unknown prompt variant: %s", variant)
	}
}

// Variant returns the configured prompt variant.
func (p *PromptAssembler) Variant() string {
	return p.variant
}

// Assemble substitutes the question and the ordered chunk texts into the template.
// scores is only used by the ranked variant and may be nil otherwise.
func (p *PromptAssembler) Assemble(question string, chunks []string, scores []float64) string {
	var contextText string
	if p.variant == config.PromptVariantRanked {
		contextText = rankedContext(chunks, scores)
	} else {
		contextText = strings.Join(chunks, "\n\n")
	}

	// Single pass, so placeholders inside the question or the context are left alone.
	r := strings.NewReplacer(
		"{context}", contextText,
		"{question}", question,
		"{max_candidates}", strconv.Itoa(RankedMaxCandidates),
		"{threshold}", strconv.FormatFloat(RankedScoreThreshold, 'f', -1, 64),
		"{no_answer}", NoRelevantAnswers,
	)
	return r.Replace(p.template)
}

func rankedContext(chunks []string, scores []float64) string {
	var b strings.Builder
	for i, text := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d]", i+1)
		if i < len(scores) {
			fmt.Fprintf(&b, " (score: %.2f)", scores[i])
		}
		b.WriteString("\n")
		b.WriteString(text)
	}
	return b.String()
}
