package decoder

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mewkiz/flac"
	flacmeta "github.com/mewkiz/flac/meta"
)

func decodeFLAC(path string) ([]float32, int, int, Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, Metadata{}, err
	}
	defer file.Close()

	stream, err := flac.New(file)
	if err != nil {
		return nil, 0, 0, Metadata{}, fmt.Errorf("failed to parse FLAC stream: %w", err)
	}

	info := stream.Info
	if info == nil {
		return nil, 0, 0, Metadata{}, fmt.Errorf("FLAC stream has no info block")
	}
	channels := int(info.NChannels)
	scale := float32(int64(1) << (info.BitsPerSample - 1))

	var samples []float32
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, Metadata{}, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float32(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	return samples, channels, int(info.SampleRate), flacTags(stream), nil
}

// flacTags pulls the standard Vorbis comment fields out of the stream's
// metadata blocks.
func flacTags(stream *flac.Stream) Metadata {
	var m Metadata
	for _, block := range stream.Blocks {
		comment, ok := block.Body.(*flacmeta.VorbisComment)
		if !ok {
			continue
		}
		for _, tag := range comment.Tags {
			switch strings.ToUpper(tag[0]) {
			case "TITLE":
				m.Title = tag[1]
			case "ARTIST":
				m.Artist = tag[1]
			case "ALBUM":
				m.Album = tag[1]
			case "ALBUMARTIST":
				m.AlbumArtist = tag[1]
			case "TRACKNUMBER":
				m.TrackNumber = tag[1]
			case "DISCNUMBER":
				m.Disc = tag[1]
			case "GENRE":
				m.Genre = tag[1]
			}
		}
	}
	return m
}
