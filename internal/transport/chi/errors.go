package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mmrank/internal/domain"
	logpkg "github.com/kailas-cloud/mmrank/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// defaultErrorHandlers maps sentinels to responses. Order matters: ErrRateLimited wraps
// ErrEmbeddingProviderError and must match first.
func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrQuerySelectorRequired, http.StatusBadRequest, ErrorCodeQuerySelectorRequired),
		sentinelHandler(domain.ErrInvalidQuerySelection, http.StatusBadRequest, ErrorCodeInvalidQuerySelection),
		sentinelHandler(domain.ErrStrategyState, http.StatusUnprocessableEntity, ErrorCodeMissingEmbedding),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusUnprocessableEntity, ErrorCodeVectorDimMismatch),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrEmbeddingCountMismatch, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrEmptyEmbedding, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var se *domain.StateError
	if errors.As(err, &se) {
		return se.Error()
	}
	sentinels := []error{
		domain.ErrInvalidConfig,
		domain.ErrQuerySelectorRequired,
		domain.ErrInvalidQuerySelection,
		domain.ErrVectorDimMismatch,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrEmbeddingCountMismatch,
		domain.ErrEmptyEmbedding,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// requestLogger prefers the per-request logger placed by WideEventMiddleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l, ok := logpkg.LoggerFromContext(r.Context()); ok {
		return l
	}
	return s.logger
}
