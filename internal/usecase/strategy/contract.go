// Package strategy resolves the query and document embeddings an aggregation needs.
package strategy

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
)

// Strategy resolves embeddings for one aggregation call. The set of implementations is
// closed: use New.
type Strategy interface {
	Kind() Kind
	ResolveQueryEmbedding(
		ctx context.Context, query content.Query,
		candidates []candidate.Candidate, provider domain.Embedder,
	) ([]float32, error)
	// ResolveDocumentEmbeddings returns one embedding per candidate, keyed by identity.
	ResolveDocumentEmbeddings(
		ctx context.Context, candidates []candidate.Candidate, provider domain.Embedder,
	) (map[string][]float32, error)

	sealed()
}

// New returns the strategy for kind, reading metadata through keys.
func New(kind Kind, keys content.MetadataKeys) (Strategy, error) {
	keys = keys.WithDefaults()
	switch kind {
	case Generate:
		return generate{}, nil
	case UseExisting:
		return useExisting{keys: keys}, nil
	case Hybrid:
		return hybrid{keys: keys}, nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding strategy %q", domain.ErrInvalidConfig, kind)
	}
}

// embedQuery vectorizes text with a single provider call.
func embedQuery(ctx context.Context, provider domain.Embedder, text string) ([]float32, error) {
	res, err := provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("vectorize query: %w", domain.ErrEmptyEmbedding)
	}
	return res.Embedding, nil
}

// embedDocuments vectorizes texts with a single batched provider call, preserving order.
func embedDocuments(ctx context.Context, provider domain.Embedder, texts []string) ([][]float32, error) {
	res, err := domain.EmbedBatch(ctx, provider, texts)
	if err != nil {
		return nil, fmt.Errorf("vectorize documents: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	return res.Embeddings, nil
}

// queryFromMetadata returns the first query embedding found on candidates.
func queryFromMetadata(candidates []candidate.Candidate, key string) ([]float32, bool) {
	for i := range candidates {
		if vec, ok := candidates[i].Content().Embedding(key); ok {
			return vec, true
		}
	}
	return nil, false
}
