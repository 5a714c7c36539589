package descriptor

import (
	"math"

	"songprint/internal/dsp"
)

const (
	// LoudnessWindowSize is the analysis window fed to Loudness.Push.
	LoudnessWindowSize = 1024

	// Raw loudness range in dB.
	loudnessMinDB = -90.0
	loudnessMaxDB = 0.0

	// Floor applied before the log so silence maps to the range minimum
	// instead of -inf.
	loudnessFloor = 1e-9
)

// Loudness records the linear sound level of each window and finalizes into
// the mean and spread of the level in decibels. It cannot fail: silence
// produces the range minimum.
type Loudness struct {
	levels []float64
}

// NewLoudness creates a loudness descriptor.
func NewLoudness() *Loudness {
	return &Loudness{}
}

// MinValue implements Normalizer.
func (l *Loudness) MinValue() float64 { return loudnessMinDB }

// MaxValue implements Normalizer.
func (l *Loudness) MaxValue() float64 { return loudnessMaxDB }

// Push records the linear power (mean of squared samples) of one window.
func (l *Loudness) Push(window []float32) {
	if len(window) == 0 {
		return
	}
	var sum float64
	for _, s := range window {
		sum += float64(s) * float64(s)
	}
	l.levels = append(l.levels, sum/float64(len(window)))
}

// Finalize returns the mean and population standard deviation of the
// recorded levels, each converted to decibels and normalized against
// [-90, 0] dB.
func (l *Loudness) Finalize() [2]float32 {
	mean := dsp.Mean(l.levels)
	std := dsp.PopulationStdDev(l.levels)
	return [2]float32{
		float32(Normalize(l, toDecibels(mean))),
		float32(Normalize(l, toDecibels(std))),
	}
}

// toDecibels converts a linear level to dB with the silence floor applied.
func toDecibels(level float64) float64 {
	if level < loudnessFloor {
		level = loudnessFloor
	}
	return 10 * math.Log10(level)
}
