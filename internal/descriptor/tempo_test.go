package descriptor

import "testing"

const testSampleRate = 22050

// pushWindows feeds samples to the tempo descriptor the way the analyzer
// does: half-overlapping windows.
func pushWindows(t *Tempo, samples []float32) {
	for i := 0; i+TempoWindowSize <= len(samples); i += TempoHopSize {
		t.Push(samples[i : i+TempoWindowSize])
	}
}

func TestTempoSilenceReturnsSentinel(t *testing.T) {
	d := NewTempo(testSampleRate)
	pushWindows(d, make([]float32, testSampleRate*5))

	if got := d.Finalize(); got != -1 {
		t.Errorf("Finalize on silence = %v, want sentinel -1", got)
	}
}

func TestTempoNoInputReturnsSentinel(t *testing.T) {
	d := NewTempo(testSampleRate)
	if got := d.Finalize(); got != -1 {
		t.Errorf("Finalize with no input = %v, want -1", got)
	}
}

func TestTempoClickTrack(t *testing.T) {
	// 120 BPM click track: a 64-sample burst every half second.
	const burst = 64
	samples := make([]float32, testSampleRate*10)
	for start := 0; start < len(samples); start += testSampleRate / 2 {
		for i := 0; i < burst && start+i < len(samples); i++ {
			if i%2 == 0 {
				samples[start+i] = 1
			} else {
				samples[start+i] = -1
			}
		}
	}

	d := NewTempo(testSampleRate)
	pushWindows(d, samples)
	got := d.Finalize()

	if got == -1 {
		t.Fatal("no onsets detected on a click track")
	}
	// Undo the normalization to compare in BPM; frame quantization makes
	// the estimate inexact.
	bpm := (float64(got) + 1) / 2 * tempoMaxBPM
	if bpm < 100 || bpm > 140 {
		t.Errorf("estimated %.1f BPM, want roughly 120", bpm)
	}
}

func TestTempoIgnoresShortWindows(t *testing.T) {
	d := NewTempo(testSampleRate)
	d.Push(make([]float32, TempoWindowSize-1))
	if d.frame != 0 {
		t.Error("short window should not advance the frame counter")
	}
}
