package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"songprint/internal/analysis"
	"songprint/internal/playlist"
)

var (
	playlistLength  int
	playlistMetric  string
	playlistNoDedup bool
	playlistAlbum   bool
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <seed>",
	Short: "Generate a playlist starting from a seed song",
	Long: `Builds a playlist from the fingerprint store. The default mode chains
songs greedily, each picked as the nearest remaining song to the previous
one. With --album the seed's whole album becomes the reference group and
entire albums are appended in order of similarity, each in track order.
Near-duplicates are dropped unless --no-dedup is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaylist,
}

func init() {
	playlistCmd.Flags().IntVarP(&playlistLength, "length", "n", 0, "maximum playlist length (0 = use config, negative = unlimited)")
	playlistCmd.Flags().StringVar(&playlistMetric, "metric", "", "distance metric: euclidean or cosine (default from config)")
	playlistCmd.Flags().BoolVar(&playlistNoDedup, "no-dedup", false, "keep near-duplicate songs")
	playlistCmd.Flags().BoolVar(&playlistAlbum, "album", false, "album mode: append whole albums by similarity")
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playlistMetric != "" {
		cfg.Playlist.Metric = playlistMetric
	}
	metric, err := cfg.Metric()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	songs := store.All()
	if len(songs) == 0 {
		return fmt.Errorf("fingerprint store is empty, run analyze first")
	}

	seed, ok := findSong(songs, args[0])
	if !ok {
		return fmt.Errorf("%s is not in the fingerprint store", args[0])
	}

	var ordered []analysis.Song
	if playlistAlbum {
		ordered, err = albumPlaylist(seed, songs, metric)
	} else {
		ordered, err = chainPlaylist(seed, songs, metric)
	}
	if err != nil {
		return err
	}

	if !playlistNoDedup {
		ordered, err = playlist.Dedup(ordered, metric, cfg.Playlist.DedupThreshold)
		if err != nil {
			return err
		}
	}

	limit := playlistLength
	if limit == 0 {
		limit = cfg.Playlist.MaxLength
	}
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	for _, s := range ordered {
		fmt.Println(s.Path)
	}
	return nil
}

func chainPlaylist(seed analysis.Song, songs []analysis.Song, metric playlist.Metric) ([]analysis.Song, error) {
	pool := make([]analysis.Song, 0, len(songs)-1)
	for _, s := range songs {
		if s.Path != seed.Path {
			pool = append(pool, s)
		}
	}
	if err := playlist.SortChain(seed, pool, metric); err != nil {
		return nil, err
	}
	return append([]analysis.Song{seed}, pool...), nil
}

func albumPlaylist(seed analysis.Song, songs []analysis.Song, metric playlist.Metric) ([]analysis.Song, error) {
	var group, pool []analysis.Song
	for _, s := range songs {
		if s.Album != "" && s.Album == seed.Album {
			group = append(group, s)
		} else {
			pool = append(pool, s)
		}
	}
	if len(group) == 0 {
		group = []analysis.Song{seed}
	}
	return playlist.GroupByAlbum(group, pool, metric)
}

// findSong matches by stored path, falling back to an absolute-path match.
func findSong(songs []analysis.Song, path string) (analysis.Song, bool) {
	for _, s := range songs {
		if s.Path == path {
			return s, true
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		for _, s := range songs {
			if s.Path == abs {
				return s, true
			}
		}
	}
	return analysis.Song{}, false
}
