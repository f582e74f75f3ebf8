package mmrank

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/mmrank/internal/usecase/aggregate"
)

// Option configures the Aggregator.
type Option interface {
	apply(*aggregatorConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*aggregatorConfig)

func (f optionFunc) apply(c *aggregatorConfig) { f(c) }

type aggregatorConfig struct {
	agg aggregate.Config

	embedder            Embedder
	openai              *OpenAIConfig
	queryInstruction    string
	documentInstruction string

	logger *zap.Logger
}

// WithLambda sets the relevance/diversity trade-off in [0,1]. 1 ranks purely by
// relevance, 0 purely by novelty. Default 0.5.
func WithLambda(lambda float64) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.agg.Lambda = lambda
	})
}

// WithMinScore drops candidates whose relevance is below minScore before selection.
func WithMinScore(minScore float64) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.agg.MinScore = minScore
	})
}

// WithMaxResults bounds the number of selected items. Unbounded by default.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.agg.MaxResults = n
	})
}

// WithStrategy selects how embeddings are acquired. Default StrategyHybrid.
func WithStrategy(s Strategy) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.agg.Strategy = s
	})
}

// WithQuerySelector sets the selector used when more than one query carries content.
// Without it such requests fail with ErrQuerySelectorRequired.
func WithQuerySelector(sel QuerySelector) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.agg.QuerySelector = sel
	})
}

// WithRelevanceScore replaces the cosine-to-relevance mapping.
func WithRelevanceScore(fn ScoreFunc) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.agg.RelevanceScore = fn
	})
}

// WithMetadataKeys renames the metadata entries read for embeddings and embedding ids.
// Empty fields keep their defaults.
func WithMetadataKeys(keys MetadataKeys) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.agg.MetadataKeys = keys
	})
}

// WithEmbedder sets the embedding provider.
// Required unless the strategy is StrategyUseExisting.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.embedder = e
	})
}

// WithOpenAI builds the embedding provider from an OpenAI-compatible API.
// Ignored when WithEmbedder is also given.
func WithOpenAI(cfg OpenAIConfig) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.openai = &cfg
	})
}

// WithInstructions prefixes query and document texts before embedding, for models
// trained with asymmetric instructions.
func WithInstructions(query, document string) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.queryInstruction = query
		c.documentInstruction = document
	})
}

// WithLogger sets a zap logger. Aggregations are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *aggregatorConfig) {
		c.logger = l
	})
}
