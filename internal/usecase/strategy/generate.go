package strategy

import (
	"context"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/metrics"
)

// generate ignores metadata and always asks the provider.
type generate struct{}

func (generate) Kind() Kind { return Generate }

func (generate) sealed() {}

func (generate) ResolveQueryEmbedding(
	ctx context.Context, query content.Query,
	_ []candidate.Candidate, provider domain.Embedder,
) ([]float32, error) {
	return embedQuery(ctx, provider, query.Text())
}

func (generate) ResolveDocumentEmbeddings(
	ctx context.Context, candidates []candidate.Candidate, provider domain.Embedder,
) (map[string][]float32, error) {
	out := make(map[string][]float32, len(candidates))
	if len(candidates) == 0 {
		return out, nil
	}

	texts := make([]string, len(candidates))
	for i := range candidates {
		texts[i] = candidates[i].Text()
	}

	vecs, err := embedDocuments(ctx, provider, texts)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		out[candidates[i].Identity()] = vecs[i]
	}

	metrics.EmbeddingsResolvedTotal.WithLabelValues(string(Generate), "generated").Add(float64(len(candidates)))
	return out, nil
}
