// Package mmr implements greedy Maximal Marginal Relevance selection.
package mmr

import (
	"math"

	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/vector"
)

// Params controls one selection run.
type Params struct {
	// Lambda trades relevance (1) against diversity (0).
	Lambda float64
	// MinScore drops candidates with a lower relevance before selection starts.
	MinScore float64
	// MaxResults bounds the output length; math.MaxInt means unbounded.
	MaxResults int
}

// Pick is one selected candidate in selection order.
type Pick struct {
	// Index points into the candidate slice passed to Select.
	Index int
	// Score is the MMR score the candidate won its round with.
	Score float64
}

// Select runs MMR over candidates whose embeddings and relevance are already resolved.
//
//	mmr(c) = lambda*relevance(c) - (1-lambda)*max_{s in selected} cos(c, s)
//
// Novelty is the raw cosine, so anti-correlated candidates (cos < 0) earn a bonus.
// Exact ties in the first round go to the higher relevance; every other tie goes to the
// candidate that appears first in the pool.
func Select(candidates []candidate.Candidate, p Params) []Pick {
	if p.MaxResults <= 0 || len(candidates) == 0 {
		return []Pick{}
	}

	remaining := make([]int, 0, len(candidates))
	for i := range candidates {
		if candidates[i].Relevance() >= p.MinScore {
			remaining = append(remaining, i)
		}
	}
	if len(remaining) == 0 {
		return []Pick{}
	}

	limit := min(p.MaxResults, len(remaining))
	picks := make([]Pick, 0, limit)

	// novelty[j] caches max similarity of remaining[j] to the selected set,
	// updated incrementally against the latest pick only.
	novelty := make([]float64, len(remaining))
	for j := range novelty {
		novelty[j] = math.Inf(-1)
	}

	for len(picks) < limit {
		best := -1
		bestScore := math.Inf(-1)

		for j, idx := range remaining {
			nov := 0.0
			if len(picks) > 0 {
				nov = novelty[j]
			}
			score := p.Lambda*candidates[idx].Relevance() - (1-p.Lambda)*nov

			if best < 0 || better(score, bestScore, len(picks) == 0, &candidates[idx], &candidates[remaining[best]]) {
				best = j
				bestScore = score
			}
		}

		chosen := remaining[best]
		picks = append(picks, Pick{Index: chosen, Score: bestScore})

		// Remove by shifting so remaining keeps ascending index order; novelty follows.
		remaining = append(remaining[:best], remaining[best+1:]...)
		novelty = append(novelty[:best], novelty[best+1:]...)

		chosenVec := candidates[chosen].Embedding()
		for j, idx := range remaining {
			if sim := vector.Cosine(candidates[idx].Embedding(), chosenVec); sim > novelty[j] {
				novelty[j] = sim
			}
		}
	}

	return picks
}

// better reports whether candidate c scoring s beats the current best b scoring bs.
// Relevance only breaks ties in the first round, where lambda 0 scores everything at 0.
func better(s, bs float64, firstRound bool, c, b *candidate.Candidate) bool {
	if s != bs {
		return s > bs
	}
	if firstRound && c.Relevance() != b.Relevance() {
		return c.Relevance() > b.Relevance()
	}
	return c.Position() < b.Position()
}
