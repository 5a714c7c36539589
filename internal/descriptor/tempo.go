package descriptor

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"songprint/internal/dsp"
)

const (
	// TempoWindowSize is the analysis window fed to Tempo.Push.
	TempoWindowSize = 512
	// TempoHopSize is the hop between successive tempo windows.
	TempoHopSize = 256

	// Raw tempo range in BPM.
	tempoMinBPM = 0.0
	tempoMaxBPM = 206.0

	// Onset detection tuning: a window counts as an onset when its spectral
	// flux exceeds this factor times the recent flux average.
	onsetFluxFactor = 1.5
	// Number of recent flux values the adaptive threshold averages over.
	onsetHistorySize = 8
	// Flux below this is treated as silence, never an onset.
	onsetSilenceFloor = 1e-6
	// Inter-onset intervals longer than this are pauses, not beats.
	maxOnsetIntervalSec = 2.0
)

// Tempo estimates beats per minute from onset strength. Windows are pushed
// in sequence; each push computes the positive spectral flux against the
// previous window's spectrum and records a BPM sample whenever an onset is
// detected. Finalize takes the median of the recorded samples.
type Tempo struct {
	sampleRate int
	fft        *fourier.FFT
	window     []float64

	prevSpectrum []float64
	fluxHistory  []float64
	windowed     []float64

	frame          int
	lastOnsetFrame int
	bpms           []float64
}

// NewTempo creates a tempo descriptor for the given sample rate.
func NewTempo(sampleRate int) *Tempo {
	return &Tempo{
		sampleRate:     sampleRate,
		fft:            fourier.NewFFT(TempoWindowSize),
		window:         dsp.HannWindow(TempoWindowSize),
		prevSpectrum:   make([]float64, TempoWindowSize/2+1),
		windowed:       make([]float64, TempoWindowSize),
		lastOnsetFrame: -1,
	}
}

// MinValue implements Normalizer.
func (t *Tempo) MinValue() float64 { return tempoMinBPM }

// MaxValue implements Normalizer.
func (t *Tempo) MaxValue() float64 { return tempoMaxBPM }

// Push consumes one TempoWindowSize-sample window. Windows shorter than the
// descriptor window are ignored.
func (t *Tempo) Push(window []float32) {
	if len(window) < TempoWindowSize {
		return
	}

	for i := 0; i < TempoWindowSize; i++ {
		t.windowed[i] = float64(window[i]) * t.window[i]
	}
	coeffs := t.fft.Coefficients(nil, t.windowed)

	// Positive spectral flux against the previous window.
	var flux float64
	for bin := range t.prevSpectrum {
		re := real(coeffs[bin])
		im := imag(coeffs[bin])
		mag := math.Sqrt(re*re + im*im)
		if diff := mag - t.prevSpectrum[bin]; diff > 0 {
			flux += diff * diff
		}
		t.prevSpectrum[bin] = mag
	}
	flux = math.Sqrt(flux)

	if t.isOnset(flux) {
		t.recordOnset()
	}

	t.fluxHistory = append(t.fluxHistory, flux)
	if len(t.fluxHistory) > onsetHistorySize {
		t.fluxHistory = t.fluxHistory[1:]
	}
	t.frame++
}

// isOnset applies the adaptive flux threshold and the refractory interval
// implied by the maximum trackable tempo.
func (t *Tempo) isOnset(flux float64) bool {
	if flux < onsetSilenceFloor {
		return false
	}
	if t.lastOnsetFrame >= 0 && t.frame-t.lastOnsetFrame < t.minOnsetGapFrames() {
		return false
	}
	if len(t.fluxHistory) == 0 {
		// Nothing to compare against yet; any audible flux counts.
		return true
	}
	return flux > onsetFluxFactor*dsp.Mean(t.fluxHistory)
}

// recordOnset converts the interval since the previous onset into a BPM
// sample.
func (t *Tempo) recordOnset() {
	if t.lastOnsetFrame >= 0 {
		interval := float64(t.frame-t.lastOnsetFrame) * TempoHopSize / float64(t.sampleRate)
		if interval <= maxOnsetIntervalSec {
			t.bpms = append(t.bpms, 60/interval)
		}
	}
	t.lastOnsetFrame = t.frame
}

// Finalize returns the normalized median of the recorded BPM samples. When
// no onset was ever detected it returns the minimum of the range (-1), a
// sentinel callers must not confuse with a legitimately slow tempo.
func (t *Tempo) Finalize() float32 {
	if len(t.bpms) == 0 {
		return -1
	}
	return float32(Normalize(t, dsp.Median(t.bpms)))
}

// minOnsetGapFrames is the refractory interval in frames: two onsets closer
// than the beat period of tempoMaxBPM cannot both be beats.
func (t *Tempo) minOnsetGapFrames() int {
	gap := int(60 / tempoMaxBPM * float64(t.sampleRate) / TempoHopSize)
	if gap < 1 {
		gap = 1
	}
	return gap
}
