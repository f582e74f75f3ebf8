// Package chi serves the aggregation API over HTTP.
package chi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mmrank/internal/domain"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/metrics"
	"github.com/kailas-cloud/mmrank/internal/usecase/aggregate"
	healthuc "github.com/kailas-cloud/mmrank/internal/usecase/health"
	"github.com/kailas-cloud/mmrank/internal/usecase/strategy"
	"github.com/kailas-cloud/mmrank/internal/version"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 8 << 20

// Options configure the HTTP server.
type Options struct {
	APIKeys      []string
	MaxBodyBytes int64
}

// Server exposes the aggregator and health checks.
type Server struct {
	aggregator    *aggregate.Service
	health        *healthuc.Service
	logger        *zap.Logger
	opts          Options
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	aggregator *aggregate.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		aggregator:    aggregator,
		health:        health,
		logger:        logger,
		opts:          opts,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(s.opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/aggregate", s.Aggregate)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
	return r
}

// Aggregate handles POST /v1/aggregate.
func (s *Server) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeBadRequest, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	svc, err := s.serviceFor(&req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	sel, err := svc.AggregateScored(ctx, requestToDomain(&req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, selectionsToResponse(sel))
}

// serviceFor applies per-request tuning and the query selector.
func (s *Server) serviceFor(req *AggregateRequest) (*aggregate.Service, error) {
	o := aggregate.Overrides{
		Lambda:     req.Lambda,
		MinScore:   req.MinScore,
		MaxResults: req.MaxResults,
	}
	if req.Strategy != nil {
		kind := strategy.Kind(*req.Strategy)
		o.Strategy = &kind
	}

	svc := s.aggregator
	if o != (aggregate.Overrides{}) {
		var err error
		if svc, err = svc.WithOverrides(o); err != nil {
			return nil, err
		}
	}
	if req.SelectQuery != nil {
		svc = svc.WithQuerySelector(selectByText(*req.SelectQuery))
	}
	return svc, nil
}

// selectByText picks the first query whose text equals want.
func selectByText(want string) aggregate.QuerySelector {
	return func(queries []content.Query) (int, error) {
		for i, q := range queries {
			if q.Text() == want {
				return i, nil
			}
		}
		return -1, fmt.Errorf("no query with content matches %q", want)
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
		w.Header().Set("X-Embedding-Calls", strconv.Itoa(usage.Calls))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
