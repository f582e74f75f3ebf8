package aggregate

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/usecase/strategy"
)

// Default tuning.
const (
	DefaultLambda   = 0.5
	DefaultMinScore = 0.0
	// DefaultMaxResults means unbounded.
	DefaultMaxResults = math.MaxInt
)

// Config is the immutable configuration of a Service.
type Config struct {
	Lambda         float64
	MinScore       float64
	MaxResults     int
	Strategy       strategy.Kind
	MetadataKeys   content.MetadataKeys
	QuerySelector  QuerySelector
	RelevanceScore candidate.ScoreFunc
}

// DefaultConfig returns lambda 0.5, no score filter, no result bound, Hybrid strategy.
func DefaultConfig() Config {
	return Config{
		Lambda:         DefaultLambda,
		MinScore:       DefaultMinScore,
		MaxResults:     DefaultMaxResults,
		Strategy:       strategy.Hybrid,
		MetadataKeys:   content.DefaultMetadataKeys(),
		RelevanceScore: candidate.RelevanceFromCosine,
	}
}

// Validate checks ranges. NaN lambda or score fail the range checks.
func (c *Config) Validate() error {
	if !(c.Lambda >= 0 && c.Lambda <= 1) {
		return fmt.Errorf("%w: lambda must be in [0,1], got %v", domain.ErrInvalidConfig, c.Lambda)
	}
	if !(c.MinScore >= 0 && c.MinScore <= 1) {
		return fmt.Errorf("%w: min score must be in [0,1], got %v", domain.ErrInvalidConfig, c.MinScore)
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("%w: max results must be >= 0, got %d", domain.ErrInvalidConfig, c.MaxResults)
	}
	if !c.Strategy.IsValid() {
		return fmt.Errorf("%w: unknown embedding strategy %q", domain.ErrInvalidConfig, c.Strategy)
	}
	return nil
}

// Overrides adjusts tuning for a single call. Nil fields keep the service value.
type Overrides struct {
	Lambda     *float64
	MinScore   *float64
	MaxResults *int
	Strategy   *strategy.Kind
}

func (o Overrides) apply(c Config) Config {
	if o.Lambda != nil {
		c.Lambda = *o.Lambda
	}
	if o.MinScore != nil {
		c.MinScore = *o.MinScore
	}
	if o.MaxResults != nil {
		c.MaxResults = *o.MaxResults
	}
	if o.Strategy != nil {
		c.Strategy = *o.Strategy
	}
	return c
}
