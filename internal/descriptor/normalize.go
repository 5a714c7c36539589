// Package descriptor implements the per-feature signal analyzers: tempo,
// spectral shape, loudness, zero-crossing rate and chroma. Each descriptor
// consumes successive windows of a mono sample buffer and finalizes into one
// or more scalar features scaled to [-1, 1].
package descriptor

// Normalizer declares the plausible raw range of a descriptor's output.
// Each descriptor implements it independently.
type Normalizer interface {
	MinValue() float64
	MaxValue() float64
}

// Normalize maps a raw value into [-1, 1] against the descriptor's declared
// range. Values outside the range are not clamped; callers guarantee
// plausibility or accept excursions beyond the unit interval.
func Normalize(n Normalizer, value float64) float64 {
	return 2*(value-n.MinValue())/(n.MaxValue()-n.MinValue()) - 1
}
