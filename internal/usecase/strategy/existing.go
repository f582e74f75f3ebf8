package strategy

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/metrics"
)

// useExisting reads everything from metadata. Missing data is an error, never a fallback.
type useExisting struct {
	keys content.MetadataKeys
}

func (useExisting) Kind() Kind { return UseExisting }

func (useExisting) sealed() {}

func (s useExisting) ResolveQueryEmbedding(
	_ context.Context, _ content.Query,
	candidates []candidate.Candidate, _ domain.Embedder,
) ([]float32, error) {
	if len(candidates) == 0 {
		return nil, domain.NewStateError(string(UseExisting), domain.ErrEmptyContentList)
	}
	vec, ok := queryFromMetadata(candidates, s.keys.QueryEmbedding)
	if !ok {
		return nil, domain.NewStateError(string(UseExisting),
			fmt.Errorf("%w (key %q)", domain.ErrQueryEmbeddingMissing, s.keys.QueryEmbedding))
	}
	return vec, nil
}

func (s useExisting) ResolveDocumentEmbeddings(
	_ context.Context, candidates []candidate.Candidate, _ domain.Embedder,
) (map[string][]float32, error) {
	out := make(map[string][]float32, len(candidates))
	for i := range candidates {
		vec, ok := candidates[i].Content().Embedding(s.keys.Embedding)
		if !ok {
			return nil, domain.NewStateError(string(UseExisting), fmt.Errorf("%w (candidate %s, key %q)",
				domain.ErrDocumentEmbeddingMissing, candidates[i].Identity(), s.keys.Embedding))
		}
		out[candidates[i].Identity()] = vec
	}

	metrics.EmbeddingsResolvedTotal.WithLabelValues(string(UseExisting), "existing").Add(float64(len(candidates)))
	return out, nil
}
