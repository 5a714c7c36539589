// Package dsp provides the numeric building blocks shared by the feature
// descriptors: reflect padding, the Hann-windowed short-time Fourier
// transform, and a handful of small statistics helpers.
package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ReflectPad extends signal by mirroring pad samples at each edge. The edge
// sample itself is not repeated, so [1 2 3 4] padded by 2 becomes
// [3 2 1 2 3 4 3 2]. pad larger than len(signal)-1 is clamped.
func ReflectPad(signal []float64, pad int) []float64 {
	if pad <= 0 || len(signal) == 0 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out
	}
	if pad > len(signal)-1 {
		pad = len(signal) - 1
	}

	n := len(signal)
	out := make([]float64, n+2*pad)
	for i := 0; i < pad; i++ {
		out[i] = signal[pad-i]
	}
	copy(out[pad:], signal)
	for i := 0; i < pad; i++ {
		out[pad+n+i] = signal[n-2-i]
	}
	return out
}

// HannWindow returns the periodic Hann window of length n, the variant used
// for spectral analysis (denominator n rather than n-1).
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// STFT computes the magnitude short-time Fourier transform of signal.
// The signal is reflect-padded by windowLength/2 so edge frames are not
// truncated, framed with a sliding window of windowLength samples stepped by
// hopLength, Hann-windowed and transformed. The result is indexed
// [bin][frame] with windowLength/2+1 bins and ceil(len(signal)/hopLength)
// frames.
func STFT(signal []float64, windowLength, hopLength int) [][]float64 {
	numBins := windowLength/2 + 1
	numFrames := (len(signal) + hopLength - 1) / hopLength

	out := make([][]float64, numBins)
	for i := range out {
		out[i] = make([]float64, numFrames)
	}
	if len(signal) == 0 {
		return out
	}

	padded := ReflectPad(signal, windowLength/2)
	window := HannWindow(windowLength)
	fft := fourier.NewFFT(windowLength)

	windowed := make([]float64, windowLength)
	for frame := 0; frame < numFrames; frame++ {
		start := frame * hopLength
		if start+windowLength > len(padded) {
			break
		}
		for i := 0; i < windowLength; i++ {
			windowed[i] = padded[start+i] * window[i]
		}
		coeffs := fft.Coefficients(nil, windowed)
		for bin := 0; bin < numBins; bin++ {
			re := real(coeffs[bin])
			im := imag(coeffs[bin])
			out[bin][frame] = math.Sqrt(re*re + im*im)
		}
	}
	return out
}
