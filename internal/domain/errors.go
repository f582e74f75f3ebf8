package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig signals an aggregator configuration outside the accepted ranges.
	ErrInvalidConfig = errors.New("invalid aggregator config")
	// ErrQuerySelectorRequired signals several non-empty queries with no selector configured.
	ErrQuerySelectorRequired = errors.New("query selector required for multiple queries")
	// ErrInvalidQuerySelection signals a selector that picked no valid query.
	ErrInvalidQuerySelection = errors.New("invalid query selection")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyEmbedding signals a zero-length embedding.
	ErrEmptyEmbedding = errors.New("empty embedding")

	// ErrStrategyState is the umbrella for embedding acquisition failures.
	ErrStrategyState = errors.New("embedding strategy state error")
	// ErrEmptyContentList signals a query embedding lookup over no candidates.
	ErrEmptyContentList = errors.New("cannot resolve query embedding from empty content list")
	// ErrQueryEmbeddingMissing signals that no candidate carries a query embedding.
	ErrQueryEmbeddingMissing = errors.New("query embedding not found in content metadata")
	// ErrDocumentEmbeddingMissing signals a candidate without a document embedding.
	ErrDocumentEmbeddingMissing = errors.New("document embedding not found in content metadata")
	// ErrEmbeddingCountMismatch signals a batch that returned the wrong number of vectors.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// StateError is returned by embedding strategies. It matches both ErrStrategyState
// and the specific cause under errors.Is.
type StateError struct {
	Strategy string
	Err      error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s strategy: %s", e.Strategy, e.Err.Error())
}

func (e *StateError) Unwrap() []error { return []error{ErrStrategyState, e.Err} }

// NewStateError creates a strategy state error.
func NewStateError(strategy string, err error) error {
	return &StateError{Strategy: strategy, Err: err}
}
