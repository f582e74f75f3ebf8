package chi

import (
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/usecase/aggregate"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
	ErrorCodeQuerySelectorRequired  ErrorCode = "query_selector_required"
	ErrorCodeInvalidQuerySelection  ErrorCode = "invalid_query_selection"
	ErrorCodeMissingEmbedding       ErrorCode = "missing_embedding"
	ErrorCodeVectorDimMismatch      ErrorCode = "vector_dim_mismatch"
	ErrorCodeRateLimited            ErrorCode = "rate_limited"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ContentItem is one retrieved item on the wire.
type ContentItem struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryRetrieval is one query with its retrieval groups.
type QueryRetrieval struct {
	Text     string          `json:"text"`
	Metadata map[string]any  `json:"metadata,omitempty"`
	Groups   [][]ContentItem `json:"groups"`
}

// AggregateRequest is the body of POST /v1/aggregate.
type AggregateRequest struct {
	Queries []QueryRetrieval `json:"queries"`
	// SelectQuery names the query to aggregate for when several carry content.
	SelectQuery *string  `json:"select_query,omitempty"`
	Lambda      *float64 `json:"lambda,omitempty"`
	MinScore    *float64 `json:"min_score,omitempty"`
	MaxResults  *int     `json:"max_results,omitempty"`
	Strategy    *string  `json:"strategy,omitempty"`
}

// AggregateItem is one selected item.
type AggregateItem struct {
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Rank      int            `json:"rank"`
	Relevance float64        `json:"relevance"`
	Score     float64        `json:"score"`
}

// AggregateResponse is the body of a successful POST /v1/aggregate.
type AggregateResponse struct {
	Items []AggregateItem `json:"items"`
	Total int             `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

func requestToDomain(req *AggregateRequest) content.Request {
	out := make(content.Request, len(req.Queries))
	for i, q := range req.Queries {
		groups := make([][]content.Content, len(q.Groups))
		for g, items := range q.Groups {
			group := make([]content.Content, len(items))
			for j, it := range items {
				group[j] = content.New(it.Text, it.Metadata)
			}
			groups[g] = group
		}
		out[i] = content.Retrieval{
			Query:  content.NewQuery(q.Text, q.Metadata),
			Groups: groups,
		}
	}
	return out
}

func selectionsToResponse(sel []aggregate.Selection) AggregateResponse {
	items := make([]AggregateItem, len(sel))
	for i, s := range sel {
		items[i] = AggregateItem{
			Text:      s.Content.Text(),
			Metadata:  s.Content.Metadata(),
			Rank:      s.Rank,
			Relevance: s.Relevance,
			Score:     s.Score,
		}
	}
	return AggregateResponse{Items: items, Total: len(items)}
}
