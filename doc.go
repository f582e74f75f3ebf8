// Package mmrank re-ranks retrieved content for relevance and diversity with Maximal
// Marginal Relevance.
//
// An Aggregator takes the content retrieved for one or more queries, resolves embeddings
// (from metadata, from an embedding provider, or both), scores every unique item against
// the query and greedily picks items that are relevant but not redundant with what was
// already picked.
//
//	agg, _ := mmrank.New(
//	    mmrank.WithOpenAI(mmrank.OpenAIConfig{APIKey: key, Model: "text-embedding-3-small"}),
//	    mmrank.WithLambda(0.7),
//	    mmrank.WithMaxResults(5),
//	)
//	items, _ := agg.Aggregate(ctx, mmrank.Request{{
//	    Query:  mmrank.NewQuery("how do I rotate keys?", nil),
//	    Groups: [][]mmrank.Content{retrieved},
//	}})
//
// Items that already carry vectors under the "embedding" and "query_embedding" metadata
// keys are scored without any provider call when the strategy is StrategyUseExisting.
package mmrank
