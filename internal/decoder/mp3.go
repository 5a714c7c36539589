package decoder

import (
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

func decodeMP3(path string) ([]float32, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	dec, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open MP3 stream: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo PCM.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode MP3 stream: %w", err)
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(v) / 32768
	}
	return samples, 2, dec.SampleRate(), nil
}
