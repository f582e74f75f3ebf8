package mmrank

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mmrank/internal/domain"
	openaiEmb "github.com/kailas-cloud/mmrank/internal/transport/openai"
	"github.com/kailas-cloud/mmrank/internal/usecase/aggregate"
	embeddinguc "github.com/kailas-cloud/mmrank/internal/usecase/embedding"
)

// OpenAIConfig configures an OpenAI-compatible embedding provider.
type OpenAIConfig struct {
	APIKey string
	// BaseURL of a compatible API; empty uses api.openai.com.
	BaseURL    string
	Model      string
	Dimensions int
}

// Aggregator is the MMR re-ranker. It is immutable and safe for concurrent use.
type Aggregator struct {
	svc      *aggregate.Service
	embedder Embedder
}

// New creates an Aggregator. Configuration is validated eagerly: out-of-range values
// fail with ErrInvalidConfig.
func New(opts ...Option) (*Aggregator, error) {
	cfg := &aggregatorConfig{agg: aggregate.DefaultConfig()}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	emb := cfg.embedder
	if emb == nil && cfg.openai != nil {
		emb = newOpenAIEmbedder(cfg.openai, cfg.logger)
	}
	if emb != nil && (cfg.queryInstruction != "" || cfg.documentInstruction != "") {
		emb = domain.NewRoutedEmbedder(
			domain.NewInstructionEmbedder(emb, cfg.queryInstruction),
			domain.NewInstructionEmbedder(emb, cfg.documentInstruction),
		)
	}

	svc, err := aggregate.New(emb, cfg.agg, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("mmrank: %w", err)
	}
	return &Aggregator{svc: svc, embedder: emb}, nil
}

func newOpenAIEmbedder(c *OpenAIConfig, logger *zap.Logger) Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Model:      c.Model,
		Dimensions: c.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	return embeddinguc.NewInstrumentedEmbedder(base, "openai", c.Model, 0, logger)
}

// Aggregate returns the selected items in selection order. Items are returned exactly
// as given, metadata included.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) ([]Content, error) {
	return a.svc.Aggregate(ctx, req)
}

// AggregateScored is Aggregate with the relevance and MMR score of each selected item.
func (a *Aggregator) AggregateScored(ctx context.Context, req Request) ([]Selection, error) {
	return a.svc.AggregateScored(ctx, req)
}

// WithQuerySelector returns a copy of the Aggregator using sel for multi-query requests.
func (a *Aggregator) WithQuerySelector(sel QuerySelector) *Aggregator {
	return &Aggregator{svc: a.svc.WithQuerySelector(sel), embedder: a.embedder}
}

// HealthCheck probes the embedding provider when it supports health checks.
func (a *Aggregator) HealthCheck(ctx context.Context) error {
	hc, ok := a.embedder.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mmrank: health check: %w", err)
	}
	return nil
}
