package decoder

import (
	"fmt"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

func decodeVorbis(path string) ([]float32, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	r, err := oggvorbis.NewReader(file)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open Vorbis stream: %w", err)
	}

	var samples []float32
	buf := make([]float32, 4096*r.Channels())
	for {
		n, err := r.Read(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode Vorbis stream: %w", err)
		}
	}
	return samples, r.Channels(), r.SampleRate(), nil
}
