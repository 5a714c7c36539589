package decoder

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func decodeWAV(path string) ([]float32, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	return pcmToFloat32(buf, bitDepth), buf.Format.NumChannels, buf.Format.SampleRate, nil
}

// pcmToFloat32 scales integer PCM into [-1, 1) by the bit depth.
func pcmToFloat32(buf *audio.IntBuffer, bitDepth int) []float32 {
	scale := float32(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / scale
	}
	return samples
}
