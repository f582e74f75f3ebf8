package mmr

import (
	"math"
	"testing"

	"github.com/kailas-cloud/mmrank/internal/domain/candidate"
	"github.com/kailas-cloud/mmrank/internal/domain/content"
	"github.com/kailas-cloud/mmrank/internal/domain/vector"
)

type fixture struct {
	vec []float32
	rel float64
}

func makeCandidates(fixtures ...fixture) []candidate.Candidate {
	out := make([]candidate.Candidate, len(fixtures))
	for i, s := range fixtures {
		out[i] = candidate.New(content.New("c", nil), i, i, content.DefaultEmbeddingIDKey)
		out[i].Resolve(s.vec, s.rel)
	}
	return out
}

// scoredAgainst sets relevance to (cos(q, vec)+1)/2 for each vector.
func scoredAgainst(q []float32, vecs ...[]float32) []candidate.Candidate {
	fixtures := make([]fixture, len(vecs))
	for i, v := range vecs {
		fixtures[i] = fixture{vec: v, rel: candidate.RelevanceFromCosine(vector.Cosine(q, v))}
	}
	return makeCandidates(fixtures...)
}

func indices(picks []Pick) []int {
	out := make([]int, len(picks))
	for i, p := range picks {
		out[i] = p.Index
	}
	return out
}

func assertOrder(t *testing.T, picks []Pick, want ...int) {
	t.Helper()
	got := indices(picks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSelect_Empty(t *testing.T) {
	if got := Select(nil, Params{Lambda: 0.5, MaxResults: 10}); len(got) != 0 {
		t.Fatalf("expected no picks, got %v", got)
	}
}

func TestSelect_ZeroMaxResults(t *testing.T) {
	cands := makeCandidates(fixture{[]float32{1, 0}, 0.9})
	if got := Select(cands, Params{Lambda: 0.5, MaxResults: 0}); len(got) != 0 {
		t.Fatalf("expected no picks, got %v", got)
	}
}

func TestSelect_LambdaOne_IsRelevanceRanking(t *testing.T) {
	cands := makeCandidates(
		fixture{[]float32{1, 0}, 0.3},
		fixture{[]float32{1, 0.01}, 0.9},
		fixture{[]float32{0, 1}, 0.5},
		fixture{[]float32{1, 0.02}, 0.7},
	)

	picks := Select(cands, Params{Lambda: 1, MaxResults: 3})
	assertOrder(t, picks, 1, 3, 2)
}

func TestSelect_LambdaOne_TiesKeepInsertionOrder(t *testing.T) {
	cands := makeCandidates(
		fixture{[]float32{1, 0}, 0.5},
		fixture{[]float32{0, 1}, 0.8},
		fixture{[]float32{1, 1}, 0.5},
		fixture{[]float32{1, 0}, 0.8},
	)

	picks := Select(cands, Params{Lambda: 1, MaxResults: 4})
	assertOrder(t, picks, 1, 3, 0, 2)
}

func TestSelect_LambdaZero_FavorsDissimilar(t *testing.T) {
	q := []float32{1, 0, 0}
	cands := scoredAgainst(q,
		[]float32{0.9, 0.1, 0},
		[]float32{0.5, 0.5, 0},
		[]float32{0.1, 0.1, 0.8},
	)

	picks := Select(cands, Params{Lambda: 0, MaxResults: 3})
	assertOrder(t, picks, 0, 2, 1)
}

func TestSelect_LambdaZero_FirstPickIsMostRelevant(t *testing.T) {
	q := []float32{1, 0, 0}
	// most relevant candidate sits last
	cands := scoredAgainst(q,
		[]float32{0.1, 0.1, 0.8},
		[]float32{0.5, 0.5, 0},
		[]float32{0.9, 0.1, 0},
	)

	picks := Select(cands, Params{Lambda: 0, MaxResults: 1})
	assertOrder(t, picks, 2)
}

func TestSelect_LaterTiesIgnoreRelevance(t *testing.T) {
	// Both later candidates are orthogonal to the first pick and score 0 at lambda 0.
	cands := makeCandidates(
		fixture{[]float32{1, 0}, 0.9},
		fixture{[]float32{0, 1}, 0.3},
		fixture{[]float32{0, 1}, 0.6},
	)

	picks := Select(cands, Params{Lambda: 0, MaxResults: 2})
	assertOrder(t, picks, 0, 1)
	if picks[1].Score != 0 {
		t.Errorf("second score = %v, want 0", picks[1].Score)
	}
}

func TestSelect_MinScoreFiltersBeforeSelection(t *testing.T) {
	cands := makeCandidates(
		fixture{[]float32{1, 0}, 0.9},
		fixture{[]float32{0.9, 0.1}, 0.7},
		fixture{[]float32{0, 1}, 0.2}, // most diverse, but irrelevant
	)

	picks := Select(cands, Params{Lambda: 0.1, MinScore: 0.5, MaxResults: 10})
	assertOrder(t, picks, 0, 1)
}

func TestSelect_MinScoreInclusive(t *testing.T) {
	cands := makeCandidates(fixture{[]float32{1}, 0.5})
	picks := Select(cands, Params{Lambda: 0.5, MinScore: 0.5, MaxResults: 1})
	assertOrder(t, picks, 0)
}

func TestSelect_MinScoreRejectsAll(t *testing.T) {
	cands := makeCandidates(fixture{[]float32{1}, 0.1}, fixture{[]float32{1}, 0.2})
	if got := Select(cands, Params{Lambda: 0.5, MinScore: 0.9, MaxResults: 5}); len(got) != 0 {
		t.Fatalf("expected no picks, got %v", indices(got))
	}
}

func TestSelect_MaxResultsBound(t *testing.T) {
	const minScore = 0.3
	for n := 0; n <= 6; n++ {
		fixtures := make([]fixture, n)
		passing := 0
		for i := range fixtures {
			rel := float64(i) / 6
			if rel >= minScore {
				passing++
			}
			fixtures[i] = fixture{[]float32{float32(i + 1), 1}, rel}
		}
		cands := makeCandidates(fixtures...)

		for k := 0; k <= 7; k++ {
			got := Select(cands, Params{Lambda: 0.5, MinScore: minScore, MaxResults: k})
			if want := min(k, passing); len(got) != want {
				t.Errorf("n=%d k=%d: got %d picks, want %d", n, k, len(got), want)
			}
		}
	}
}

func TestSelect_UnboundedMaxResults(t *testing.T) {
	cands := makeCandidates(
		fixture{[]float32{1, 0}, 0.9},
		fixture{[]float32{0, 1}, 0.8},
		fixture{[]float32{1, 1}, 0.7},
	)

	picks := Select(cands, Params{Lambda: 0.5, MaxResults: math.MaxInt})
	if len(picks) != 3 {
		t.Fatalf("expected all 3 picks, got %d", len(picks))
	}
}

func TestSelect_SkipsNearDuplicate(t *testing.T) {
	cands := makeCandidates(
		fixture{[]float32{1, 0, 0}, 1.0},
		fixture{[]float32{0.99, 0.01, 0}, 0.95},
		fixture{[]float32{0, 1, 0}, 0.9},
		fixture{[]float32{0, 0.99, 0.01}, 0.85},
	)

	picks := Select(cands, Params{Lambda: 0.7, MaxResults: 3})
	if picks[0].Index != 0 {
		t.Fatalf("expected most relevant first, got %d", picks[0].Index)
	}
	if picks[1].Index != 2 {
		t.Errorf("expected diverse candidate second, got %d", picks[1].Index)
	}
}

func TestSelect_NegativeSimilarityIsNotClamped(t *testing.T) {
	cands := makeCandidates(
		fixture{[]float32{1, 0}, 1.0},
		fixture{[]float32{0, 1}, 0.5},  // orthogonal to the first pick
		fixture{[]float32{-1, 0}, 0.5}, // anti-correlated with the first pick
	)

	picks := Select(cands, Params{Lambda: 0.5, MaxResults: 2})
	// orthogonal: 0.25 - 0.5*0 = 0.25; anti-correlated: 0.25 - 0.5*(-1) = 0.75.
	// Clamping novelty at zero would tie them and pick index 1.
	assertOrder(t, picks, 0, 2)
	if math.Abs(picks[1].Score-0.75) > 1e-9 {
		t.Errorf("expected score 0.75, got %f", picks[1].Score)
	}
}

func TestSelect_ScoresReported(t *testing.T) {
	cands := makeCandidates(
		fixture{[]float32{1, 0}, 0.8},
		fixture{[]float32{1, 0}, 0.6},
	)

	picks := Select(cands, Params{Lambda: 0.5, MaxResults: 2})
	assertOrder(t, picks, 0, 1)
	if math.Abs(picks[0].Score-0.4) > 1e-9 {
		t.Errorf("first score = %f, want 0.4", picks[0].Score)
	}
	// 0.5*0.6 - 0.5*1 = -0.2
	if math.Abs(picks[1].Score+0.2) > 1e-9 {
		t.Errorf("second score = %f, want -0.2", picks[1].Score)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	q := []float32{0.3, 0.4, 0.5}
	cands := scoredAgainst(q,
		[]float32{1, 0, 0}, []float32{0, 1, 0}, []float32{0, 0, 1},
		[]float32{1, 1, 0}, []float32{0, 1, 1}, []float32{1, 0, 1},
		[]float32{1, 0, 0}, []float32{0, 1, 0},
	)
	params := Params{Lambda: 0.4, MaxResults: 6}

	first := indices(Select(cands, params))
	for range 20 {
		again := indices(Select(cands, params))
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("non-deterministic order: %v vs %v", first, again)
			}
		}
	}
}
