package descriptor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"songprint/internal/dsp"
)

const (
	// SpectralWindowSize is the analysis window fed to Spectral.Push.
	SpectralWindowSize = 512
	// SpectralHopSize is the hop between successive spectral windows.
	SpectralHopSize = 128

	// Fraction of spectral energy below the rolloff frequency.
	rolloffFraction = 0.95
)

// Spectral accumulates per-frame spectral shape statistics: centroid (the
// magnitude-weighted mean frequency), rolloff (the frequency below which 95%
// of energy lies) and flatness (geometric over arithmetic mean of the
// magnitude spectrum).
type Spectral struct {
	sampleRate int
	fft        *fourier.FFT
	window     []float64
	windowed   []float64

	centroids  []float64
	rolloffs   []float64
	flatnesses []float64
}

// NewSpectral creates a spectral-shape descriptor for the given sample rate.
func NewSpectral(sampleRate int) *Spectral {
	return &Spectral{
		sampleRate: sampleRate,
		fft:        fourier.NewFFT(SpectralWindowSize),
		window:     dsp.HannWindow(SpectralWindowSize),
		windowed:   make([]float64, SpectralWindowSize),
	}
}

// MinValue implements Normalizer for the centroid and rolloff features.
func (s *Spectral) MinValue() float64 { return 0 }

// MaxValue implements Normalizer: frequencies cannot exceed Nyquist.
func (s *Spectral) MaxValue() float64 { return float64(s.sampleRate) / 2 }

// Push consumes one SpectralWindowSize-sample window and records its
// centroid, rolloff and flatness.
func (s *Spectral) Push(window []float32) error {
	if len(window) < SpectralWindowSize {
		return fmt.Errorf("spectral window has %d samples, need %d", len(window), SpectralWindowSize)
	}

	for i := 0; i < SpectralWindowSize; i++ {
		s.windowed[i] = float64(window[i]) * s.window[i]
	}
	coeffs := s.fft.Coefficients(nil, s.windowed)

	numBins := SpectralWindowSize/2 + 1
	magnitudes := make([]float64, numBins)
	for bin := 0; bin < numBins; bin++ {
		re := real(coeffs[bin])
		im := imag(coeffs[bin])
		magnitudes[bin] = math.Sqrt(re*re + im*im)
	}

	s.centroids = append(s.centroids, s.centroidHz(magnitudes))
	s.rolloffs = append(s.rolloffs, s.rolloffHz(magnitudes))
	s.flatnesses = append(s.flatnesses, flatness(magnitudes))
	return nil
}

// centroidHz returns the magnitude-weighted mean frequency, 0 for a silent
// frame.
func (s *Spectral) centroidHz(magnitudes []float64) float64 {
	var weighted, total float64
	for bin, mag := range magnitudes {
		weighted += float64(bin) * mag
		total += mag
	}
	if total == 0 {
		return 0
	}
	return weighted / total * float64(s.sampleRate) / SpectralWindowSize
}

// rolloffHz returns the frequency below which rolloffFraction of the
// spectral energy lies, clamped to at most half the window length in bins.
func (s *Spectral) rolloffHz(magnitudes []float64) float64 {
	var total float64
	for _, mag := range magnitudes {
		total += mag * mag
	}
	threshold := total * rolloffFraction

	bin := 0
	var cum float64
	for i, mag := range magnitudes {
		cum += mag * mag
		if cum >= threshold {
			bin = i
			break
		}
	}
	if bin > SpectralWindowSize/2 {
		bin = SpectralWindowSize / 2
	}
	return float64(bin) * float64(s.sampleRate) / SpectralWindowSize
}

// flatness returns the geometric mean of the magnitude spectrum divided by
// its arithmetic mean, 0 when the geometric mean is 0. Values near 1
// indicate a noise-like spectrum, values near 0 a tonal one.
func flatness(magnitudes []float64) float64 {
	gm := dsp.GeometricMean(magnitudes)
	if gm == 0 {
		return 0
	}
	am := dsp.Mean(magnitudes)
	if am == 0 {
		return 0
	}
	return gm / am
}

// Finalize returns six normalized features: mean and standard deviation of
// centroid, rolloff and flatness. Centroid and rolloff are normalized
// against [0, sampleRate/2]; flatness is remapped directly from its natural
// [0, 1] range.
func (s *Spectral) Finalize() ([]float32, error) {
	if len(s.centroids) == 0 {
		return nil, fmt.Errorf("spectral descriptor received no windows")
	}

	out := make([]float32, 0, 6)
	for _, values := range [][]float64{s.centroids, s.rolloffs} {
		out = append(out,
			float32(Normalize(s, dsp.Mean(values))),
			float32(Normalize(s, dsp.PopulationStdDev(values))),
		)
	}
	out = append(out,
		float32(2*dsp.Mean(s.flatnesses)-1),
		float32(2*dsp.PopulationStdDev(s.flatnesses)-1),
	)
	return out, nil
}
