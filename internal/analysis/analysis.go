// Package analysis assembles the descriptor outputs into a fixed-length,
// versioned fingerprint and provides the concurrent orchestration that runs
// every descriptor over one sample buffer.
package analysis

import (
	"fmt"
	"time"
)

// SampleRate is the sample rate every analyzed buffer must use, in Hz.
// The decoder boundary is responsible for resampling to it.
const SampleRate = 22050

// Version identifies a feature layout. Analyses are only comparable when
// their versions agree.
type Version uint16

const (
	// Version1 is the original 20-feature layout.
	Version1 Version = 1
	// Version2 appends the dyad norm, triad norm and their ratio to the
	// chroma block.
	Version2 Version = 2

	// CurrentVersion is the layout produced by Analyze.
	CurrentVersion = Version2
)

// baseFeatureNames label the non-chroma slots shared by every version,
// in vector order.
var baseFeatureNames = []string{
	"tempo",
	"zero_crossing_rate",
	"mean_spectral_centroid",
	"std_spectral_centroid",
	"mean_spectral_rolloff",
	"std_spectral_rolloff",
	"mean_spectral_flatness",
	"std_spectral_flatness",
	"mean_loudness",
	"std_loudness",
}

var chromaFeatureNames = []string{
	"chroma_interval_one",
	"chroma_interval_two",
	"chroma_interval_three",
	"chroma_interval_four",
	"chroma_interval_five",
	"chroma_interval_six",
	"chroma_major_triad",
	"chroma_minor_triad",
	"chroma_diminished_triad",
	"chroma_augmented_triad",
}

var extendedChromaFeatureNames = []string{
	"chroma_dyad_norm",
	"chroma_triad_norm",
	"chroma_norm_ratio",
}

// Valid reports whether v names a known feature layout.
func (v Version) Valid() bool {
	return v == Version1 || v == Version2
}

// FeatureCount returns the fixed length of an Analysis for this version.
func (v Version) FeatureCount() int {
	switch v {
	case Version1:
		return len(baseFeatureNames) + len(chromaFeatureNames)
	case Version2:
		return len(baseFeatureNames) + len(chromaFeatureNames) + len(extendedChromaFeatureNames)
	default:
		return 0
	}
}

// FeatureNames returns the semantic label of every Analysis slot, in vector
// order. The labels exist for introspection and custom distance metrics
// only; they never drive mutation.
func (v Version) FeatureNames() []string {
	names := make([]string, 0, v.FeatureCount())
	names = append(names, baseFeatureNames...)
	names = append(names, chromaFeatureNames...)
	if v == Version2 {
		names = append(names, extendedChromaFeatureNames...)
	}
	return names
}

// Analysis is the fixed-length numeric fingerprint of one song. It is
// immutable after construction.
type Analysis struct {
	version Version
	values  []float32
}

// New wraps a feature vector as an Analysis. The vector length must equal
// the version's feature count; a mismatch is a hard error.
func New(values []float32, version Version) (Analysis, error) {
	if !version.Valid() {
		return Analysis{}, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}
	if len(values) != version.FeatureCount() {
		return Analysis{}, fmt.Errorf("%w: got %d features, version %d requires %d",
			ErrFeatureCountMismatch, len(values), version, version.FeatureCount())
	}
	owned := make([]float32, len(values))
	copy(owned, values)
	return Analysis{version: version, values: owned}, nil
}

// Version returns the feature layout of this analysis.
func (a Analysis) Version() Version { return a.version }

// Len returns the number of features.
func (a Analysis) Len() int { return len(a.values) }

// At returns the feature at slot i.
func (a Analysis) At(i int) float32 { return a.values[i] }

// AsSlice returns the ordered feature vector for persistence. The returned
// slice is a copy; reconstructing with New and the same version round-trips
// bit-identically.
func (a Analysis) AsSlice() []float32 {
	out := make([]float32, len(a.values))
	copy(out, a.values)
	return out
}

// Song couples a file with its metadata and fingerprint. It is what the
// distance and playlist algorithms consume.
type Song struct {
	Path        string
	Artist      string
	Title       string
	Album       string
	AlbumArtist string
	TrackNumber string
	Disc        string
	Genre       string
	Duration    time.Duration

	Analysis Analysis
}
