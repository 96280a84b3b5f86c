// Package similarity holds the scoring and ranking shared by the vector
// index backends that rank in Go.
package similarity

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of a and b.
// Zero-length or zero-norm vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scored is a candidate with its insertion sequence.
type Scored struct {
	Seq   int64
	Index int
	Score float64
}

// Rank sorts candidates by descending score, ties by ascending Seq, and
// truncates to k.
func Rank(candidates []Scored, k int) []Scored {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Seq < candidates[j].Seq
	})
	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates
}
