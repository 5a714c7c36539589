package dsp

import (
	"math"
	"testing"
)

func TestGeometricMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"contains zero", []float64{1, 0, 4}, 0},
		{"single", []float64{3}, 3},
		{"pair", []float64{2, 8}, 4},
		{"triple", []float64{1, 3, 9}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeometricMean(tt.values)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("GeometricMean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestGeometricMeanNoOverflow(t *testing.T) {
	// The naive product of 1000 values around 1e300 overflows; the
	// mantissa/exponent form must not.
	values := make([]float64, 1000)
	for i := range values {
		values[i] = 1e300
	}
	got := GeometricMean(values)
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("GeometricMean overflowed: %v", got)
	}
	if math.Abs(got-1e300)/1e300 > 1e-9 {
		t.Errorf("GeometricMean = %v, want 1e300", got)
	}
}

func TestGeometricMeanNoUnderflow(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = 1e-300
	}
	got := GeometricMean(values)
	if got == 0 {
		t.Fatal("GeometricMean underflowed to 0")
	}
	if math.Abs(got-1e-300)/1e-300 > 1e-9 {
		t.Errorf("GeometricMean = %v, want 1e-300", got)
	}
}

func TestHzToOctave(t *testing.T) {
	tests := []struct {
		name   string
		freq   float64
		tuning float64
		want   float64
	}{
		{"A4", 440, 0, 4},
		{"A5", 880, 0, 5},
		{"A3", 220, 0, 3},
		{"A4 tuned up a semitone", 440 * math.Exp2(1.0/12), 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HzToOctave(tt.freq, tt.tuning, 12)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("HzToOctave(%v, %v) = %v, want %v", tt.freq, tt.tuning, got, tt.want)
			}
		})
	}
}

func TestCountZeroCrossings(t *testing.T) {
	tests := []struct {
		name   string
		window []float32
		want   int
	}{
		{"empty", nil, 0},
		{"all zeros", make([]float32, 1024), 0},
		{"constant positive", []float32{1, 1, 1, 1}, 0},
		{"alternating", []float32{1, -1, 1, -1}, 3},
		{"single crossing", []float32{-1, -0.5, 0.5, 1}, 1},
		{"zero counts as positive", []float32{-1, 0, -1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountZeroCrossings(tt.window); got != tt.want {
				t.Errorf("CountZeroCrossings = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count midpoint", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestPopulationStdDev(t *testing.T) {
	// Population std dev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := PopulationStdDev(values); math.Abs(got-2) > 1e-12 {
		t.Errorf("PopulationStdDev = %v, want 2", got)
	}
	if got := PopulationStdDev([]float64{5, 5, 5}); got != 0 {
		t.Errorf("PopulationStdDev of constant = %v, want 0", got)
	}
}
