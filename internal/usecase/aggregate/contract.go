package aggregate

import (
	"github.com/kailas-cloud/mmrank/internal/domain/content"
)

// QuerySelector picks the query to aggregate for when a request carries several
// non-empty queries. It returns an index into queries.
type QuerySelector func(queries []content.Query) (int, error)

// Selection is one aggregated item with the scores that placed it.
type Selection struct {
	Content content.Content
	// Rank is the 0-based selection order.
	Rank int
	// Relevance is the relevance score against the query, in [0,1].
	Relevance float64
	// Score is the MMR score the item won its round with.
	Score float64
}
