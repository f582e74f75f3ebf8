package strategy

import (
	"context"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/metrics"
)

// hybrid prefers metadata and generates only what is missing.
type hybrid struct {
	keys content.MetadataKeys
}

func (hybrid) Kind() Kind { return Hybrid }

func (hybrid) sealed() {}

func (s hybrid) ResolveQueryEmbedding(
	ctx context.Context, query content.Query,
	candidates []candidate.Candidate, provider domain.Embedder,
) ([]float32, error) {
	if vec, ok := queryFromMetadata(candidates, s.keys.QueryEmbedding); ok {
		return vec, nil
	}
	return embedQuery(ctx, provider, query.Text())
}

func (s hybrid) ResolveDocumentEmbeddings(
	ctx context.Context, candidates []candidate.Candidate, provider domain.Embedder,
) (map[string][]float32, error) {
	out := make(map[string][]float32, len(candidates))

	var missing []int
	for i := range candidates {
		if vec, ok := candidates[i].Content().Embedding(s.keys.Embedding); ok {
			out[candidates[i].Identity()] = vec
			continue
		}
		missing = append(missing, i)
	}

	existing := len(candidates) - len(missing)
	metrics.EmbeddingsResolvedTotal.WithLabelValues(string(Hybrid), "existing").Add(float64(existing))

	if len(missing) == 0 {
		return out, nil
	}

	texts := make([]string, len(missing))
	for j, i := range missing {
		texts[j] = candidates[i].Text()
	}

	vecs, err := embedDocuments(ctx, provider, texts)
	if err != nil {
		return nil, err
	}
	for j, i := range missing {
		out[candidates[i].Identity()] = vecs[j]
	}

	metrics.EmbeddingsResolvedTotal.WithLabelValues(string(Hybrid), "generated").Add(float64(len(missing)))
	return out, nil
}
