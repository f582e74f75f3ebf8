// Package health reports the availability of the cache store and the embedding provider.
package health

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Aggregation may still work, e.g. without the cache.
	Degraded Status = "degraded"
	// Unhealthy indicates every configured component failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe struct {
	name string
	fn   func(ctx context.Context) error
}

// Service coordinates health checks.
type Service struct {
	probes  []probe
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Service. Either dependency can be nil: the cache is optional and the
// use_existing strategy runs without a provider.
func New(db DBPinger, embedding EmbeddingChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{timeout: DefaultCheckTimeout, logger: logger}
	if db != nil {
		s.probes = append(s.probes, probe{name: "database", fn: db.Ping})
	}
	if embedding != nil {
		s.probes = append(s.probes, probe{name: "embedding", fn: embedding.HealthCheck})
	}
	return s
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.probes))
	failed := 0

	for _, p := range s.probes {
		pctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := p.fn(pctx)
		cancel()

		if err != nil {
			failed++
			checks[p.name] = CheckError
			s.logger.Warn("Health check failed", zap.String("component", p.name), zap.Error(err))
			continue
		}
		checks[p.name] = CheckOK
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(s.probes):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
