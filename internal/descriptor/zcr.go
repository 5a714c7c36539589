package descriptor

import "songprint/internal/dsp"

// ZeroCrossingRateWindowSize is the analysis window fed to
// ZeroCrossingRate.Push.
const ZeroCrossingRateWindowSize = 1024

// ZeroCrossingRate accumulates sign changes across all pushed windows. A
// high rate indicates noisy or percussive content. It cannot fail: an
// all-zero signal yields the range minimum.
type ZeroCrossingRate struct {
	crossings int
	samples   int
}

// NewZeroCrossingRate creates a zero-crossing-rate descriptor.
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{}
}

// MinValue implements Normalizer.
func (z *ZeroCrossingRate) MinValue() float64 { return 0 }

// MaxValue implements Normalizer.
func (z *ZeroCrossingRate) MaxValue() float64 { return 1 }

// Push counts the polarity flips within one window.
func (z *ZeroCrossingRate) Push(window []float32) {
	z.crossings += dsp.CountZeroCrossings(window)
	z.samples += len(window)
}

// Finalize returns total crossings over total samples, normalized against
// [0, 1].
func (z *ZeroCrossingRate) Finalize() float32 {
	if z.samples == 0 {
		return -1
	}
	return float32(Normalize(z, float64(z.crossings)/float64(z.samples)))
}
