package mmrank

import "github.com/kailas-cloud/mmrank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidConfig            = domain.ErrInvalidConfig
	ErrQuerySelectorRequired    = domain.ErrQuerySelectorRequired
	ErrInvalidQuerySelection    = domain.ErrInvalidQuerySelection
	ErrVectorDimMismatch        = domain.ErrVectorDimMismatch
	ErrEmptyEmbedding           = domain.ErrEmptyEmbedding
	ErrStrategyState            = domain.ErrStrategyState
	ErrEmptyContentList         = domain.ErrEmptyContentList
	ErrQueryEmbeddingMissing    = domain.ErrQueryEmbeddingMissing
	ErrDocumentEmbeddingMissing = domain.ErrDocumentEmbeddingMissing
	ErrEmbeddingCountMismatch   = domain.ErrEmbeddingCountMismatch
	ErrEmbeddingProviderError   = domain.ErrEmbeddingProviderError
	ErrRateLimited              = domain.ErrRateLimited
)

// StateError reports a strategy that could not obtain an embedding it requires.
// It matches both ErrStrategyState and the specific cause with errors.Is.
type StateError = domain.StateError
