package strategy

import (
	"context"
	"errors"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
)

// mockProvider returns vectors from a text table and records every call.
type mockProvider struct {
	vectors    map[string][]float32
	embedErr   error
	batchErr   error
	embedCalls int
	batchCalls int
	embedTexts []string
	batchTexts [][]string
}

func newMockProvider(vectors map[string][]float32) *mockProvider {
	return &mockProvider{vectors: vectors}
}

func (m *mockProvider) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.embedCalls++
	m.embedTexts = append(m.embedTexts, text)
	if m.embedErr != nil {
		return domain.EmbeddingResult{}, m.embedErr
	}
	vec, ok := m.vectors[text]
	if !ok {
		return domain.EmbeddingResult{}, errors.New("no vector for " + text)
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 3}, nil
}

func (m *mockProvider) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchTexts = append(m.batchTexts, texts)
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, ok := m.vectors[t]
		if !ok {
			return domain.BatchEmbeddingResult{}, errors.New("no vector for " + t)
		}
		out[i] = vec
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: 5 * len(texts)}, nil
}

func (m *mockProvider) totalCalls() int { return m.embedCalls + m.batchCalls }

func makeCandidates(items ...content.Content) []candidate.Candidate {
	out := make([]candidate.Candidate, len(items))
	for i, c := range items {
		out[i] = candidate.New(c, i, i, content.DefaultEmbeddingIDKey)
	}
	return out
}

func withEmbedding(text string, vec []float32) content.Content {
	return content.New(text, map[string]any{content.DefaultEmbeddingKey: vec})
}

func mustNew(kind Kind) Strategy {
	s, err := New(kind, content.DefaultMetadataKeys())
	if err != nil {
		panic(err)
	}
	return s
}
