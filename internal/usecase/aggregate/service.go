// Package aggregate selects a relevant, non-redundant subset of retrieved content.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/domain/vector"
	"github.com/kailas-cloud/mmrank/internal/metrics"
	"github.com/kailas-cloud/mmrank/internal/usecase/mmr"
	"github.com/kailas-cloud/mmrank/internal/usecase/strategy"
)

// Service is the MMR aggregator. It holds no per-call state and is safe for concurrent use.
type Service struct {
	cfg      Config
	strategy strategy.Strategy
	embed    domain.Embedder
	logger   *zap.Logger
}

// New creates an aggregator. embed may be nil only with the UseExisting strategy.
func New(embed domain.Embedder, cfg Config, logger *zap.Logger) (*Service, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = strategy.Hybrid
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RelevanceScore == nil {
		cfg.RelevanceScore = candidate.RelevanceFromCosine
	}
	cfg.MetadataKeys = cfg.MetadataKeys.WithDefaults()

	strat, err := strategy.New(cfg.Strategy, cfg.MetadataKeys)
	if err != nil {
		return nil, err
	}
	if embed == nil && cfg.Strategy != strategy.UseExisting {
		return nil, fmt.Errorf("%w: %s strategy requires an embedder", domain.ErrInvalidConfig, cfg.Strategy)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{cfg: cfg, strategy: strat, embed: embed, logger: logger}, nil
}

// Config returns a copy of the effective configuration.
func (s *Service) Config() Config { return s.cfg }

// WithQuerySelector returns a copy of the service using sel for multi-query requests.
func (s *Service) WithQuerySelector(sel QuerySelector) *Service {
	cp := *s
	cp.cfg.QuerySelector = sel
	return &cp
}

// WithOverrides returns a copy of the service tuned by o. The copy is validated like New.
func (s *Service) WithOverrides(o Overrides) (*Service, error) {
	cfg := o.apply(s.cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cp := *s
	cp.cfg = cfg
	if cfg.Strategy != s.cfg.Strategy {
		if s.embed == nil && cfg.Strategy != strategy.UseExisting {
			return nil, fmt.Errorf("%w: %s strategy requires an embedder", domain.ErrInvalidConfig, cfg.Strategy)
		}
		strat, err := strategy.New(cfg.Strategy, cfg.MetadataKeys)
		if err != nil {
			return nil, err
		}
		cp.strategy = strat
	}
	return &cp, nil
}

// Aggregate returns the selected content items in selection order.
func (s *Service) Aggregate(ctx context.Context, req content.Request) ([]content.Content, error) {
	sel, err := s.AggregateScored(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make([]content.Content, len(sel))
	for i := range sel {
		out[i] = sel[i].Content
	}
	return out, nil
}

// AggregateScored is Aggregate with the relevance and MMR score of every selected item.
func (s *Service) AggregateScored(ctx context.Context, req content.Request) ([]Selection, error) {
	start := time.Now()
	kind := string(s.strategy.Kind())

	sel, poolSize, err := s.aggregate(ctx, req)

	duration := time.Since(start)
	metrics.AggregationDuration.WithLabelValues(kind).Observe(duration.Seconds())

	switch {
	case err != nil:
		metrics.AggregationsTotal.WithLabelValues(kind, "error").Inc()
		s.logger.Warn("Aggregation failed",
			zap.String("strategy", kind),
			zap.Int("pool_size", poolSize),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	case poolSize == 0:
		metrics.AggregationsTotal.WithLabelValues(kind, "empty").Inc()
	default:
		metrics.AggregationsTotal.WithLabelValues(kind, "ok").Inc()
		metrics.AggregationPoolSize.Observe(float64(poolSize))
	}

	s.logger.Debug("Aggregation completed",
		zap.String("strategy", kind),
		zap.Int("pool_size", poolSize),
		zap.Int("selected", len(sel)),
		zap.Duration("duration", duration),
	)
	return sel, nil
}

func (s *Service) aggregate(ctx context.Context, req content.Request) ([]Selection, int, error) {
	ret, ok, err := s.selectRetrieval(req)
	if err != nil || !ok {
		return []Selection{}, 0, err
	}

	pool := buildPool(ret, s.cfg.MetadataKeys.EmbeddingID)
	if len(pool) == 0 {
		return []Selection{}, 0, nil
	}

	if err := s.score(ctx, ret.Query, pool); err != nil {
		return nil, len(pool), err
	}

	picks := mmr.Select(pool, mmr.Params{
		Lambda:     s.cfg.Lambda,
		MinScore:   s.cfg.MinScore,
		MaxResults: s.cfg.MaxResults,
	})

	out := make([]Selection, len(picks))
	for rank, p := range picks {
		c := &pool[p.Index]
		out[rank] = Selection{
			Content:   c.Content(),
			Rank:      rank,
			Relevance: c.Relevance(),
			Score:     p.Score,
		}
	}
	return out, len(pool), nil
}

// selectRetrieval finds the single query to aggregate for. ok is false when no query
// has content.
func (s *Service) selectRetrieval(req content.Request) (content.Retrieval, bool, error) {
	nonEmpty := req.NonEmpty()
	switch len(nonEmpty) {
	case 0:
		return content.Retrieval{}, false, nil
	case 1:
		return nonEmpty[0], true, nil
	}

	if s.cfg.QuerySelector == nil {
		return content.Retrieval{}, false, fmt.Errorf("%w: got %d non-empty queries",
			domain.ErrQuerySelectorRequired, len(nonEmpty))
	}

	queries := make([]content.Query, len(nonEmpty))
	for i, r := range nonEmpty {
		queries[i] = r.Query
	}
	idx, err := s.cfg.QuerySelector(queries)
	if err != nil {
		return content.Retrieval{}, false, fmt.Errorf("%w: %w", domain.ErrInvalidQuerySelection, err)
	}
	if idx < 0 || idx >= len(nonEmpty) {
		return content.Retrieval{}, false, fmt.Errorf("%w: index %d out of %d queries",
			domain.ErrInvalidQuerySelection, idx, len(nonEmpty))
	}
	return nonEmpty[idx], true, nil
}

// score resolves embeddings through the strategy and sets each candidate's relevance.
func (s *Service) score(ctx context.Context, query content.Query, pool []candidate.Candidate) error {
	queryVec, err := s.strategy.ResolveQueryEmbedding(ctx, query, pool, s.embed)
	if err != nil {
		return fmt.Errorf("resolve query embedding: %w", err)
	}
	if len(queryVec) == 0 {
		return fmt.Errorf("resolve query embedding: %w", domain.ErrEmptyEmbedding)
	}

	docs, err := s.strategy.ResolveDocumentEmbeddings(ctx, pool, s.embed)
	if err != nil {
		return fmt.Errorf("resolve document embeddings: %w", err)
	}

	for i := range pool {
		c := &pool[i]
		vec, ok := docs[c.Identity()]
		if !ok {
			return fmt.Errorf("%w: no embedding resolved for candidate %s",
				domain.ErrEmbeddingCountMismatch, c.Identity())
		}
		if len(vec) != len(queryVec) {
			return fmt.Errorf("%w: candidate %s has %d dimensions, query has %d",
				domain.ErrVectorDimMismatch, c.Identity(), len(vec), len(queryVec))
		}
		c.Resolve(vec, s.cfg.RelevanceScore(vector.Cosine(queryVec, vec)))
	}
	return nil
}
