package descriptor

import (
	"fmt"
	"math"

	"songprint/internal/dsp"
)

const (
	// ChromaWindowSize is the STFT window for chroma analysis. It is also
	// the largest window any descriptor requires.
	ChromaWindowSize = 8192
	// ChromaHopSize is the STFT hop for chroma analysis: 100 ms at 22050 Hz.
	ChromaHopSize = 2205

	// NumChroma is the number of pitch classes per octave.
	NumChroma = 12

	// Pitch-peak tracking bounds and threshold.
	pitchMinHz    = 150.0
	pitchMaxHz    = 4000.0
	peakThreshold = 0.1

	// Tuning histogram resolution in fractional semitones.
	tuningResolution = 0.01

	// Raw range shared by every chroma interval feature.
	chromaFeatureMax = 0.12

	// Gaussian envelope over absolute octave position: emphasis is centred
	// at octave 5 with a half-width of 2 octaves.
	chromaCenterOctave = 5.0
	chromaOctaveWidth  = 2.0
)

// Chroma folds the pitch content of a whole sample buffer into interval and
// triad features. Unlike the streamed descriptors it consumes the entire
// buffer at once, because tuning estimation needs global context.
type Chroma struct {
	sampleRate int
	extended   bool
}

// NewChroma creates a chroma descriptor. When extended is true, Describe
// additionally emits the dyad norm, triad norm and their ratio.
func NewChroma(sampleRate int, extended bool) *Chroma {
	return &Chroma{sampleRate: sampleRate, extended: extended}
}

// MinValue implements Normalizer.
func (c *Chroma) MinValue() float64 { return 0 }

// MaxValue implements Normalizer.
func (c *Chroma) MaxValue() float64 { return chromaFeatureMax }

// Describe runs the full chroma pipeline over samples: STFT, tuning
// estimation, filter-bank projection and interval-template features. The
// returned scalars are normalized against [0, 0.12].
func (c *Chroma) Describe(samples []float32) ([]float32, error) {
	if len(samples) < ChromaWindowSize {
		return nil, fmt.Errorf("chroma needs at least %d samples, got %d", ChromaWindowSize, len(samples))
	}

	signal := make([]float64, len(samples))
	for i, s := range samples {
		signal[i] = float64(s)
	}

	spectrum := dsp.STFT(signal, ChromaWindowSize, ChromaHopSize)
	// Power spectrum, shared by tuning estimation and the projection.
	for _, row := range spectrum {
		for i, v := range row {
			row[i] = v * v
		}
	}

	tuning := EstimateTuning(c.sampleRate, spectrum, ChromaWindowSize, tuningResolution, NumChroma)
	filter := ChromaFilter(c.sampleRate, ChromaWindowSize, NumChroma, tuning)
	chroma := chromaProjection(filter, spectrum)

	features := intervalFeatures(chroma, c.extended)
	out := make([]float32, len(features))
	for i, f := range features {
		out[i] = float32(Normalize(c, f))
	}
	return out, nil
}

// FeatureCount returns the number of scalars Describe emits.
func (c *Chroma) FeatureCount() int {
	if c.extended {
		return len(intervalTemplates) + 3
	}
	return len(intervalTemplates)
}

// EstimateTuning estimates the fractional semitone deviation of the
// recording's pitch reference from A440, in [-0.5, 0.5]. power is a power
// spectrogram indexed [bin][frame]. An empty or silent spectrum yields 0.
func EstimateTuning(sampleRate int, power [][]float64, nFFT int, resolution float64, binsPerOctave int) float64 {
	pitches, magnitudes := PitchPeakTrack(sampleRate, power, nFFT)

	kept := make([]float64, 0, len(pitches))
	keptMags := make([]float64, 0, len(pitches))
	for i, p := range pitches {
		if p > 0 {
			kept = append(kept, p)
			keptMags = append(keptMags, magnitudes[i])
		}
	}
	if len(kept) == 0 {
		return 0
	}

	// Keep only the stronger half: peaks at or above the median magnitude.
	threshold := dsp.Median(keptMags)
	residuals := make([]float64, 0, len(kept))
	for i, p := range kept {
		if keptMags[i] < threshold {
			continue
		}
		residuals = append(residuals, semitoneResidual(p, binsPerOctave))
	}
	if len(residuals) == 0 {
		return 0
	}

	return histogramMode(residuals, resolution)
}

// semitoneResidual maps a frequency to its fractional semitone offset from
// the nearest equal-tempered pitch, in [-0.5, 0.5).
func semitoneResidual(freq float64, binsPerOctave int) float64 {
	semitones := float64(binsPerOctave) * dsp.HzToOctave(freq, 0, binsPerOctave)
	r := semitones - math.Floor(semitones)
	if r >= 0.5 {
		r -= 1
	}
	return r
}

// histogramMode bins residuals over [-0.5, 0.5) at the given resolution and
// returns the center of the most populated bin. Ties go to the lowest bin.
func histogramMode(residuals []float64, resolution float64) float64 {
	numBins := int(math.Ceil(1 / resolution))
	counts := make([]int, numBins)
	for _, r := range residuals {
		idx := int((r + 0.5) / resolution)
		if idx < 0 {
			idx = 0
		}
		if idx >= numBins {
			idx = numBins - 1
		}
		counts[idx]++
	}

	mode := 0
	for i, c := range counts {
		if c > counts[mode] {
			mode = i
		}
	}
	return -0.5 + (float64(mode)+0.5)*resolution
}

// PitchPeakTrack finds per-frame spectral peaks in the [150, 4000] Hz band
// of a power spectrogram indexed [bin][frame]. A peak is a bin whose
// magnitude exceeds peakThreshold times the column maximum and is a strict
// local maximum among its neighbors along the frequency axis. The peak
// position is refined to a sub-bin frequency by parabolic interpolation.
// Returns parallel slices of refined pitch (Hz) and interpolated magnitude,
// flattened across frames.
func PitchPeakTrack(sampleRate int, power [][]float64, nFFT int) (pitches, magnitudes []float64) {
	if len(power) == 0 || len(power[0]) == 0 {
		return nil, nil
	}
	numBins := len(power)
	numFrames := len(power[0])
	binHz := float64(sampleRate) / float64(nFFT)
	nyquist := float64(sampleRate) / 2

	lowBin := int(math.Ceil(pitchMinHz / binHz))
	highBin := int(math.Floor(pitchMaxHz / binHz))
	if float64(highBin)*binHz >= nyquist {
		highBin = int(math.Ceil(nyquist/binHz)) - 1
	}
	// Parabolic refinement needs two neighbors on each side.
	if lowBin < 2 {
		lowBin = 2
	}
	if highBin > numBins-3 {
		highBin = numBins - 3
	}

	for frame := 0; frame < numFrames; frame++ {
		var columnMax float64
		for bin := 0; bin < numBins; bin++ {
			if power[bin][frame] > columnMax {
				columnMax = power[bin][frame]
			}
		}
		threshold := peakThreshold * columnMax

		for bin := lowBin; bin <= highBin; bin++ {
			mag := power[bin][frame]
			if mag <= threshold {
				continue
			}
			prev := power[bin-1][frame]
			next := power[bin+1][frame]
			if !(mag > prev && mag >= next) {
				continue
			}

			avg := 0.5 * (next - prev)
			shift := 2*mag - prev - next
			// Nudge a vanishing denominator instead of skipping the peak.
			if math.Abs(shift) < math.SmallestNonzeroFloat64 {
				shift++
			}
			delta := avg / shift

			pitches = append(pitches, (float64(bin)+delta)*binHz)
			magnitudes = append(magnitudes, mag+0.5*avg*delta)
		}
	}
	return pitches, magnitudes
}

// ChromaFilter builds the [nChroma][nFFT/2+1] weighting matrix that
// projects a power spectrogram onto pitch classes. Each FFT bin is placed at
// its tuning-adjusted chroma position, weights fall off as a Gaussian of the
// circular chroma distance, columns are L2-normalized, and a second Gaussian
// envelope over octave position de-emphasizes extreme registers. The chroma
// axis is rolled by 3 bins so index 0 lines up with pitch class C.
func ChromaFilter(sampleRate, nFFT, nChroma int, tuning float64) [][]float64 {
	// Chroma-scaled positions for bins 1..nFFT-1; bin 0 (DC) is backfilled
	// 1.5 octaves below the first real bin.
	positions := make([]float64, nFFT)
	for bin := 1; bin < nFFT; bin++ {
		freq := float64(bin) * float64(sampleRate) / float64(nFFT)
		positions[bin] = float64(nChroma) * dsp.HzToOctave(freq, tuning, nChroma)
	}
	positions[0] = positions[1] - 1.5*float64(nChroma)

	// Per-bin bandwidth from the spacing of adjacent positions, at least
	// one chroma bin wide.
	bandwidths := make([]float64, nFFT)
	for bin := 0; bin < nFFT-1; bin++ {
		bandwidths[bin] = math.Max(positions[bin+1]-positions[bin], 1)
	}
	bandwidths[nFFT-1] = 1

	weights := make([][]float64, nChroma)
	for c := range weights {
		weights[c] = make([]float64, nFFT)
		for bin := 0; bin < nFFT; bin++ {
			d := wrapChromaDistance(positions[bin]-float64(c), nChroma)
			weights[c][bin] = math.Exp(-0.5 * math.Pow(2*d/bandwidths[bin], 2))
		}
	}

	// L2-normalize each frequency column.
	for bin := 0; bin < nFFT; bin++ {
		var sumSq float64
		for c := 0; c < nChroma; c++ {
			sumSq += weights[c][bin] * weights[c][bin]
		}
		if norm := math.Sqrt(sumSq); norm > 0 {
			for c := 0; c < nChroma; c++ {
				weights[c][bin] /= norm
			}
		}
	}

	// Octave-centred Gaussian envelope.
	for bin := 0; bin < nFFT; bin++ {
		octave := positions[bin] / float64(nChroma)
		envelope := math.Exp(-0.5 * math.Pow((octave-chromaCenterOctave)/chromaOctaveWidth, 2))
		for c := 0; c < nChroma; c++ {
			weights[c][bin] *= envelope
		}
	}

	// Roll the chroma axis by 3 and keep the real-FFT half.
	numBins := nFFT/2 + 1
	roll := 3 * (nChroma / NumChroma)
	out := make([][]float64, nChroma)
	for c := range out {
		out[c] = weights[(c+roll)%nChroma][:numBins]
	}
	return out
}

// wrapChromaDistance wraps a chroma-scale distance into
// [-nChroma/2, nChroma/2).
func wrapChromaDistance(d float64, nChroma int) float64 {
	half := float64(nChroma) / 2
	return math.Mod(math.Mod(d+half, float64(nChroma))+float64(nChroma), float64(nChroma)) - half
}

// chromaProjection multiplies the filter bank with a power spectrogram and
// L1-normalizes each time column. Near-zero column sums are replaced by 1 so
// silent frames stay zero instead of blowing up.
func chromaProjection(filter, power [][]float64) [][]float64 {
	numFrames := 0
	if len(power) > 0 {
		numFrames = len(power[0])
	}
	numBins := len(power)

	chroma := make([][]float64, len(filter))
	for c := range chroma {
		chroma[c] = make([]float64, numFrames)
		row := filter[c]
		for bin := 0; bin < numBins && bin < len(row); bin++ {
			w := row[bin]
			if w == 0 {
				continue
			}
			for frame := 0; frame < numFrames; frame++ {
				chroma[c][frame] += w * power[bin][frame]
			}
		}
	}

	for frame := 0; frame < numFrames; frame++ {
		var sum float64
		for c := range chroma {
			sum += chroma[c][frame]
		}
		if sum < math.SmallestNonzeroFloat64 {
			sum = 1
		}
		for c := range chroma {
			chroma[c][frame] /= sum
		}
	}
	return chroma
}
