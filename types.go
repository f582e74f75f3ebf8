package mmrank

import (
	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/usecase/aggregate"
	"github.com/kailas-cloud/mmrank/internal/usecase/strategy"
)

type (
	// Query is the text content was retrieved for.
	Query = content.Query
	// Content is one retrieved item. It is returned unchanged.
	Content = content.Content
	// Retrieval is one query with its retrieval groups.
	Retrieval = content.Retrieval
	// Request is the input of an aggregation.
	Request = content.Request
	// MetadataKeys names the metadata entries holding embeddings and embedding ids.
	MetadataKeys = content.MetadataKeys
	// Selection is a picked item with its rank, relevance and MMR score.
	Selection = aggregate.Selection
	// QuerySelector picks the query to aggregate for when several carry content.
	QuerySelector = aggregate.QuerySelector
	// ScoreFunc maps cosine similarity to a relevance score.
	ScoreFunc = candidate.ScoreFunc
	// Strategy names how embeddings are acquired.
	Strategy = strategy.Kind

	// Embedder converts text to an embedding vector.
	Embedder = domain.Embedder
	// BatchEmbedder vectorizes several texts in one provider call. Optional: an Embedder
	// without it is called once per text.
	BatchEmbedder = domain.BatchEmbedder
	// EmbeddingResult carries an embedding vector and its token counts.
	EmbeddingResult = domain.EmbeddingResult
	// BatchEmbeddingResult carries embedding vectors in input order and aggregate token usage.
	BatchEmbeddingResult = domain.BatchEmbeddingResult
)

// Embedding strategies.
const (
	StrategyGenerate    = strategy.Generate
	StrategyUseExisting = strategy.UseExisting
	StrategyHybrid      = strategy.Hybrid
)

// Reserved metadata keys.
const (
	EmbeddingKey      = content.DefaultEmbeddingKey
	QueryEmbeddingKey = content.DefaultQueryEmbeddingKey
	EmbeddingIDKey    = content.DefaultEmbeddingIDKey
)

// NewQuery creates a query. metadata may be nil.
func NewQuery(text string, metadata map[string]any) Query {
	return content.NewQuery(text, metadata)
}

// NewContent creates a content item. metadata may be nil.
func NewContent(text string, metadata map[string]any) Content {
	return content.New(text, metadata)
}

// RelevanceFromCosine is the default relevance: cosine similarity rescaled to [0,1].
func RelevanceFromCosine(cosine float64) float64 {
	return candidate.RelevanceFromCosine(cosine)
}
