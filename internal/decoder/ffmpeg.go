package decoder

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strings"
)

// FFmpeg shells out to ffmpeg/ffprobe for formats without a native decoder
// and for tag probing.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg locates ffmpeg and ffprobe in PATH.
func NewFFmpeg() (*FFmpeg, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// DecodeSamples decodes path to mono float32 PCM at TargetSampleRate,
// letting ffmpeg do the downmix and resample.
func (f *FFmpeg) DecodeSamples(ctx context.Context, path string) ([]float32, error) {
	args := []string{
		"-i", path,
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", TargetSampleRate),
		"-",
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
			cmd.Wait()
		}
	}()

	raw, err := io.ReadAll(stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to read ffmpeg output: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}

	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return samples, nil
}

// Probe reads tag metadata with ffprobe.
func (f *FFmpeg) Probe(ctx context.Context, path string) (Metadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	}

	cmd := exec.CommandContext(ctx, f.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probeResult struct {
		Format struct {
			Tags map[string]string `json:"tags"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &probeResult); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var meta Metadata
	for key, value := range probeResult.Format.Tags {
		switch strings.ToLower(key) {
		case "title":
			meta.Title = value
		case "artist":
			meta.Artist = value
		case "album":
			meta.Album = value
		case "album_artist", "albumartist":
			meta.AlbumArtist = value
		case "track", "tracknumber":
			meta.TrackNumber = value
		case "disc", "discnumber":
			meta.Disc = value
		case "genre":
			meta.Genre = value
		}
	}
	return meta, nil
}
