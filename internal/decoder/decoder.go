// Package decoder turns audio files into the one input shape the analysis
// engine accepts: a mono, 22050 Hz, 32-bit-float sample buffer plus tag
// metadata. FLAC, MP3, Ogg Vorbis and WAV decode natively; everything else
// goes through ffmpeg when it is installed.
package decoder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"songprint/internal/analysis"
)

// TargetSampleRate is the rate every decoded buffer is resampled to.
const TargetSampleRate = analysis.SampleRate

// Metadata holds the tags read from a file. Missing tags stay empty.
type Metadata struct {
	Artist      string
	Title       string
	Album       string
	AlbumArtist string
	TrackNumber string
	Disc        string
	Genre       string
}

// Decoded is the result of decoding one file.
type Decoded struct {
	Samples  []float32 // mono, TargetSampleRate
	Metadata Metadata
	Duration time.Duration
}

// Decoder dispatches on file extension to a native decoder, falling back to
// ffmpeg for formats without one.
type Decoder struct {
	ffmpeg *FFmpeg
}

// New returns a decoder. ffmpeg support is optional; without it only the
// native formats decode.
func New() *Decoder {
	ff, err := NewFFmpeg()
	if err != nil {
		ff = nil
	}
	return &Decoder{ffmpeg: ff}
}

// HasFFmpeg reports whether the ffmpeg fallback is available.
func (d *Decoder) HasFFmpeg() bool { return d.ffmpeg != nil }

// SupportedExtensions returns the lowercase extensions (with dot) this
// decoder can handle, native formats first.
func (d *Decoder) SupportedExtensions() []string {
	exts := []string{".flac", ".mp3", ".ogg", ".oga", ".wav"}
	if d.ffmpeg != nil {
		exts = append(exts, ".m4a", ".aac", ".opus", ".wma")
	}
	return exts
}

// Decode reads, decodes, downmixes and resamples one file. The context only
// bounds the ffmpeg paths; native decoding is plain file IO.
func (d *Decoder) Decode(ctx context.Context, path string) (*Decoded, error) {
	var (
		interleaved []float32
		channels    int
		sampleRate  int
		meta        Metadata
		err         error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		interleaved, channels, sampleRate, err = decodeWAV(path)
	case ".flac":
		interleaved, channels, sampleRate, meta, err = decodeFLAC(path)
	case ".mp3":
		interleaved, channels, sampleRate, err = decodeMP3(path)
	case ".ogg", ".oga":
		interleaved, channels, sampleRate, err = decodeVorbis(path)
	default:
		if d.ffmpeg == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		interleaved, err = d.ffmpeg.DecodeSamples(ctx, path)
		channels = 1
		sampleRate = TargetSampleRate
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %s: bad stream parameters", ErrDecode, path)
	}

	frames := len(interleaved) / channels
	duration := time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))

	mono := mixToMono(interleaved, channels)
	mono = resample(mono, sampleRate, TargetSampleRate)

	// ffprobe fills whatever tags the native decoder could not read.
	if d.ffmpeg != nil {
		if probed, err := d.ffmpeg.Probe(ctx, path); err == nil {
			meta = mergeMetadata(meta, probed)
		}
	}

	return &Decoded{Samples: mono, Metadata: meta, Duration: duration}, nil
}

// Song decodes path and pairs the result with its fingerprint as a Song.
func (d *Decoder) Song(ctx context.Context, path string) (analysis.Song, error) {
	dec, err := d.Decode(ctx, path)
	if err != nil {
		return analysis.Song{}, err
	}
	a, err := analysis.Analyze(dec.Samples)
	if err != nil {
		return analysis.Song{}, fmt.Errorf("%s: %w", path, err)
	}
	return analysis.Song{
		Path:        path,
		Artist:      dec.Metadata.Artist,
		Title:       dec.Metadata.Title,
		Album:       dec.Metadata.Album,
		AlbumArtist: dec.Metadata.AlbumArtist,
		TrackNumber: dec.Metadata.TrackNumber,
		Disc:        dec.Metadata.Disc,
		Genre:       dec.Metadata.Genre,
		Duration:    dec.Duration,
		Analysis:    a,
	}, nil
}

// mergeMetadata keeps base fields and fills empty ones from extra.
func mergeMetadata(base, extra Metadata) Metadata {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Metadata{
		Artist:      pick(base.Artist, extra.Artist),
		Title:       pick(base.Title, extra.Title),
		Album:       pick(base.Album, extra.Album),
		AlbumArtist: pick(base.AlbumArtist, extra.AlbumArtist),
		TrackNumber: pick(base.TrackNumber, extra.TrackNumber),
		Disc:        pick(base.Disc, extra.Disc),
		Genre:       pick(base.Genre, extra.Genre),
	}
}
