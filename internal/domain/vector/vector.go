// Package vector holds the numeric primitives shared by scoring and selection.
package vector

import (
	"fmt"
	"math"
)

// Cosine returns dot(a,b) / (|a|*|b|). Both vectors must have the same non-zero length;
// anything else is a programming error and panics. A zero-norm vector yields 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		panic(fmt.Sprintf("vector: cosine of incompatible vectors (len %d vs %d)", len(a), len(b)))
	}

	normA, normB := Norm(a), Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return Dot(a, b) / (normA * normB)
}

// Dot returns the inner product of two vectors of the same length.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vector: dot of incompatible vectors (len %d vs %d)", len(a), len(b)))
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// FromAny decodes an embedding stored in an opaque metadata value.
// Accepts []float32, []float64 and []any of numbers (what JSON decoding produces).
func FromAny(v any) ([]float32, bool) {
	switch vec := v.(type) {
	case []float32:
		return vec, len(vec) > 0
	case []float64:
		if len(vec) == 0 {
			return nil, false
		}
		out := make([]float32, len(vec))
		for i, x := range vec {
			out[i] = float32(x)
		}
		return out, true
	case []any:
		if len(vec) == 0 {
			return nil, false
		}
		out := make([]float32, len(vec))
		for i, x := range vec {
			f, ok := toFloat(x)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	default:
		return 0, false
	}
}
