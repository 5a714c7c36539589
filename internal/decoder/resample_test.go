package decoder

import (
	"math"
	"testing"
)

func TestMixToMono(t *testing.T) {
	mono := []float32{0.1, 0.2, 0.3}
	if got := mixToMono(mono, 1); &got[0] != &mono[0] {
		t.Error("single-channel input should pass through")
	}

	stereo := []float32{1, 0, 0.5, -0.5, -1, 1}
	want := []float32{0.5, 0, 0}
	got := mixToMono(stereo, 2)
	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResampleSameRate(t *testing.T) {
	in := []float32{1, 2, 3}
	if got := resample(in, 44100, 44100); &got[0] != &in[0] {
		t.Error("equal rates should pass through")
	}
}

func TestResampleHalvesLength(t *testing.T) {
	in := make([]float32, 44100)
	out := resample(in, 44100, 22050)
	if len(out) != 22050 {
		t.Errorf("length = %d, want 22050", len(out))
	}
}

func TestResampleConstantSignal(t *testing.T) {
	in := make([]float32, 1000)
	for i := range in {
		in[i] = 0.7
	}
	out := resample(in, 48000, 22050)
	for i, v := range out {
		if math.Abs(float64(v)-0.7) > 1e-6 {
			t.Fatalf("sample %d = %v, want 0.7", i, v)
		}
	}
}

func TestResamplePreservesFrequency(t *testing.T) {
	// A 100 Hz sine resampled from 44100 to 22050 must still cross zero
	// about 200 times in one second.
	const srcRate = 44100
	in := make([]float32, srcRate)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * 100 * float64(i) / srcRate))
	}
	out := resample(in, srcRate, 22050)

	crossings := 0
	for i := 1; i < len(out); i++ {
		if (out[i-1] >= 0) != (out[i] >= 0) {
			crossings++
		}
	}
	if crossings < 195 || crossings > 205 {
		t.Errorf("zero crossings = %d, want about 200", crossings)
	}
}

func TestCubicInterpolateEndpoints(t *testing.T) {
	if got := cubicInterpolate(0, 1, 2, 3, 0); got != 1 {
		t.Errorf("x=0 gives %v, want y1", got)
	}
	// A straight line interpolates exactly.
	if got := cubicInterpolate(0, 1, 2, 3, 0.5); math.Abs(float64(got)-1.5) > 1e-6 {
		t.Errorf("linear midpoint = %v, want 1.5", got)
	}
}

func TestMergeMetadata(t *testing.T) {
	base := Metadata{Title: "Kept", Artist: ""}
	extra := Metadata{Title: "Ignored", Artist: "Filled", Genre: "Jazz"}
	got := mergeMetadata(base, extra)
	if got.Title != "Kept" || got.Artist != "Filled" || got.Genre != "Jazz" {
		t.Errorf("mergeMetadata = %+v", got)
	}
}
