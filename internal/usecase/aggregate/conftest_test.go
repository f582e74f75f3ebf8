package aggregate

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/usecase/strategy"
)

// mockEmbedder serves vectors from a text table and counts calls.
type mockEmbedder struct {
	vectors    map[string][]float32
	err        error
	embedCalls int
	batchCalls int
	batchTexts [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.embedCalls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	vec, ok := m.vectors[text]
	if !ok {
		return domain.EmbeddingResult{}, fmt.Errorf("no vector for %q", text)
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 1}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchTexts = append(m.batchTexts, texts)
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, ok := m.vectors[t]
		if !ok {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("no vector for %q", t)
		}
		out[i] = vec
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

func (m *mockEmbedder) calls() int { return m.embedCalls + m.batchCalls }

func newService(t *testing.T, embed domain.Embedder, mutate func(*Config)) *Service {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	svc, err := New(embed, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func useGenerate(cfg *Config) { cfg.Strategy = strategy.Generate }

func single(query string, groups ...[]content.Content) content.Request {
	return content.Request{{Query: content.NewQuery(query, nil), Groups: groups}}
}

func items(texts ...string) []content.Content {
	out := make([]content.Content, len(texts))
	for i, t := range texts {
		out[i] = content.New(t, nil)
	}
	return out
}

func texts(cs []content.Content) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text()
	}
	return out
}

func assertTexts(t *testing.T, got []content.Content, want ...string) {
	t.Helper()
	g := texts(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}
