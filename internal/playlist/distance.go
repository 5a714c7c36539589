// Package playlist implements distance metrics over song fingerprints and
// the ordering, deduplication and album-grouping algorithms built on them.
// Everything here is single-threaded and pure; persistence and batch
// scheduling live elsewhere.
package playlist

import (
	"math"

	"songprint/internal/analysis"
)

// Metric maps two fingerprints to a non-negative scalar. A metric must be
// deterministic and is only defined when both analyses share a version; the
// playlist functions reject mixed-version inputs before calling one.
type Metric func(a, b analysis.Analysis) float32

// Euclidean returns the straight-line distance between two fingerprints.
func Euclidean(a, b analysis.Analysis) float32 {
	var sum float64
	for i := 0; i < a.Len(); i++ {
		d := float64(a.At(i)) - float64(b.At(i))
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

// Cosine returns one minus the cosine similarity of two fingerprints. A
// zero-norm fingerprint has no direction, so its distance to anything is 0.
func Cosine(a, b analysis.Analysis) float32 {
	var dot, normA, normB float64
	for i := 0; i < a.Len(); i++ {
		x := float64(a.At(i))
		y := float64(b.At(i))
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}

// WeightedEuclidean returns a metric computing sqrt((a-b)ᵀ M (a-b)) for a
// square weight matrix m, indexed [row][col] over fingerprint slots. A nil
// matrix is the identity, which reduces to Euclidean.
func WeightedEuclidean(m [][]float32) Metric {
	if m == nil {
		return Euclidean
	}
	return func(a, b analysis.Analysis) float32 {
		n := a.Len()
		diff := make([]float64, n)
		for i := 0; i < n; i++ {
			diff[i] = float64(a.At(i)) - float64(b.At(i))
		}
		var sum float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				sum += diff[i] * float64(m[i][j]) * diff[j]
			}
		}
		// A non-positive-definite matrix can push the quadratic form
		// slightly negative.
		if sum < 0 {
			sum = 0
		}
		return float32(math.Sqrt(sum))
	}
}
