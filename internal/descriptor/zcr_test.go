package descriptor

import "testing"

func TestZeroCrossingRateSilence(t *testing.T) {
	z := NewZeroCrossingRate()
	z.Push(make([]float32, 1024))

	if z.crossings != 0 {
		t.Errorf("crossings = %d, want 0", z.crossings)
	}
	if got := z.Finalize(); got != -1 {
		t.Errorf("Finalize = %v, want -1", got)
	}
}

func TestZeroCrossingRateAlternating(t *testing.T) {
	window := make([]float32, 1024)
	for i := range window {
		if i%2 == 0 {
			window[i] = 1
		} else {
			window[i] = -1
		}
	}

	z := NewZeroCrossingRate()
	z.Push(window)

	want := float32(2*1023.0/1024.0 - 1)
	if got := z.Finalize(); got != want {
		t.Errorf("Finalize = %v, want %v", got, want)
	}
}

func TestZeroCrossingRateAccumulatesAcrossWindows(t *testing.T) {
	z := NewZeroCrossingRate()
	z.Push([]float32{1, -1, 1, -1}) // 3 crossings
	z.Push(make([]float32, 4))      // 0 crossings

	if z.crossings != 3 || z.samples != 8 {
		t.Errorf("accumulated %d/%d, want 3/8", z.crossings, z.samples)
	}
}

func TestZeroCrossingRateNoInput(t *testing.T) {
	z := NewZeroCrossingRate()
	if got := z.Finalize(); got != -1 {
		t.Errorf("Finalize with no input = %v, want -1", got)
	}
}
