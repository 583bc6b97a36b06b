package services

import (
	"context"
	"errors"
	"sync"

	"docqa-service/models"
)

var errFakeUpstream = errors.New("upstream exploded")

// fakeEmbedder returns fixed vectors keyed by text. Unknown texts map to fallback.
type fakeEmbedder struct {
	docs     map[string][]float32
	queries  map[string][]float32
	fallback []float32
	docErr   error
	queryErr error
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.docErr != nil {
		return nil, f.docErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.docs[t]; ok {
			out[i] = v
		} else {
			out[i] = f.fallback
		}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if v, ok := f.queries[text]; ok {
		return v, nil
	}
	return f.fallback, nil
}

type fakeGenerator struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeRetriever struct {
	hits  []models.ScoredChunk
	err   error
	gotK  int
	calls int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k int) ([]models.ScoredChunk, error) {
	f.calls++
	f.gotK = k
	if f.err != nil {
		return nil, f.err
	}
	if k < len(f.hits) {
		return f.hits[:k], nil
	}
	return f.hits, nil
}

type fakeAnswerer struct {
	answer *models.Answer
	err    error
	calls  int
}

func (f *fakeAnswerer) Answer(_ context.Context, question string) (*models.Answer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (f *fakePinger) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakePinger) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
