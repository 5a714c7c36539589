package decoder

// mixToMono averages interleaved channels into one. A single-channel input
// is returned as-is.
func mixToMono(samples []float32, channels int) []float32 {
	if channels == 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// resample converts a mono buffer from srcRate to dstRate with Catmull-Rom
// cubic interpolation, clamping the four-point window at the edges. Equal
// rates return the input unchanged.
func resample(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen == 0 {
		outLen = 1
	}

	out := make([]float32, outLen)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		frac := float32(pos - float64(j))

		y0 := sampleAt(samples, j-1)
		y1 := sampleAt(samples, j)
		y2 := sampleAt(samples, j+1)
		y3 := sampleAt(samples, j+2)
		out[i] = cubicInterpolate(y0, y1, y2, y3, frac)
	}
	return out
}

func sampleAt(samples []float32, i int) float32 {
	if i < 0 {
		i = 0
	}
	if i >= len(samples) {
		i = len(samples) - 1
	}
	return samples[i]
}

// cubicInterpolate evaluates a Catmull-Rom spline through y0..y3 at x in
// [0, 1) between y1 and y2.
func cubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1
	return a0*x*x*x + a1*x*x + a2*x + a3
}
