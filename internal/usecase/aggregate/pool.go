package aggregate

import (
	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
)

// buildPool flattens the groups of one retrieval (group order, then item order) and
// drops later items whose identity was already seen.
func buildPool(r content.Retrieval, idKey string) []candidate.Candidate {
	pool := make([]candidate.Candidate, 0, r.Size())
	seen := make(map[string]struct{}, r.Size())

	seq := 0
	for _, group := range r.Groups {
		for _, c := range group {
			cand := candidate.New(c, len(pool), seq, idKey)
			seq++
			if _, dup := seen[cand.Identity()]; dup {
				continue
			}
			seen[cand.Identity()] = struct{}{}
			pool = append(pool, cand)
		}
	}
	return pool
}
