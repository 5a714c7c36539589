package analysis

import (
	"fmt"
	"sync"

	"songprint/internal/descriptor"
)

// minSampleCount is the largest window any descriptor requires; shorter
// buffers cannot produce a single frame for every descriptor.
const minSampleCount = descriptor.ChromaWindowSize

// Analyze extracts the current-version fingerprint from a mono sample
// buffer at SampleRate. The buffer is borrowed, never mutated.
func Analyze(samples []float32) (Analysis, error) {
	return AnalyzeVersion(samples, CurrentVersion)
}

// AnalyzeVersion extracts the fingerprint for a specific feature layout.
//
// Each descriptor family runs as its own goroutine over a read-only view of
// the buffer. There is no cancellation: if one descriptor fails the others
// still run to completion, and the first error observed while joining is
// returned. The concatenated vector is length-checked against the version
// before being wrapped, which guards against descriptors silently changing
// their output arity.
func AnalyzeVersion(samples []float32, version Version) (Analysis, error) {
	if !version.Valid() {
		return Analysis{}, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}
	if len(samples) < minSampleCount {
		return Analysis{}, fmt.Errorf("%w: %d samples, need at least %d",
			ErrSongTooShort, len(samples), minSampleCount)
	}

	var (
		wg sync.WaitGroup

		tempo       float32
		zcr         float32
		spectral    []float32
		spectralErr error
		loudness    [2]float32
		chroma      []float32
		chromaErr   error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		tempo = runTempo(samples)
	}()
	go func() {
		defer wg.Done()
		spectral, spectralErr = runSpectral(samples)
	}()
	go func() {
		defer wg.Done()
		loudness = runLoudness(samples)
	}()
	go func() {
		defer wg.Done()
		zcr = runZeroCrossingRate(samples)
	}()
	go func() {
		defer wg.Done()
		chroma, chromaErr = runChroma(samples, version)
	}()
	wg.Wait()

	for _, err := range []error{spectralErr, chromaErr} {
		if err != nil {
			return Analysis{}, fmt.Errorf("analysis failed: %w", err)
		}
	}

	features := make([]float32, 0, version.FeatureCount())
	features = append(features, tempo, zcr)
	features = append(features, spectral...)
	features = append(features, loudness[0], loudness[1])
	features = append(features, chroma...)

	if len(features) != version.FeatureCount() {
		return Analysis{}, fmt.Errorf("%w: assembled %d features, version %d requires %d",
			ErrFeatureCountMismatch, len(features), version, version.FeatureCount())
	}
	return New(features, version)
}

func runTempo(samples []float32) float32 {
	d := descriptor.NewTempo(SampleRate)
	for i := 0; i+descriptor.TempoWindowSize <= len(samples); i += descriptor.TempoHopSize {
		d.Push(samples[i : i+descriptor.TempoWindowSize])
	}
	return d.Finalize()
}

func runSpectral(samples []float32) ([]float32, error) {
	d := descriptor.NewSpectral(SampleRate)
	for i := 0; i+descriptor.SpectralWindowSize <= len(samples); i += descriptor.SpectralHopSize {
		if err := d.Push(samples[i : i+descriptor.SpectralWindowSize]); err != nil {
			return nil, err
		}
	}
	return d.Finalize()
}

func runLoudness(samples []float32) [2]float32 {
	d := descriptor.NewLoudness()
	for i := 0; i+descriptor.LoudnessWindowSize <= len(samples); i += descriptor.LoudnessWindowSize {
		d.Push(samples[i : i+descriptor.LoudnessWindowSize])
	}
	return d.Finalize()
}

func runZeroCrossingRate(samples []float32) float32 {
	d := descriptor.NewZeroCrossingRate()
	for i := 0; i+descriptor.ZeroCrossingRateWindowSize <= len(samples); i += descriptor.ZeroCrossingRateWindowSize {
		d.Push(samples[i : i+descriptor.ZeroCrossingRateWindowSize])
	}
	return d.Finalize()
}

func runChroma(samples []float32, version Version) ([]float32, error) {
	d := descriptor.NewChroma(SampleRate, version >= Version2)
	return d.Describe(samples)
}
