package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"songprint/internal/analysis"
	"songprint/internal/decoder"
	"songprint/internal/playlist"
)

var distanceCmd = &cobra.Command{
	Use:   "distance <a> <b>",
	Short: "Print the distance between two songs",
	Long: `Prints the euclidean and cosine distances between the fingerprints of
two files. Files already in the store use their stored fingerprints; anything
else is decoded and analyzed on the fly.`,
	Args: cobra.ExactArgs(2),
	RunE: runDistance,
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	dec := decoder.New()
	resolve := func(path string) (analysis.Song, error) {
		if song, ok := store.Get(path); ok {
			return song, nil
		}
		return dec.Song(cmd.Context(), path)
	}

	a, err := resolve(args[0])
	if err != nil {
		return err
	}
	b, err := resolve(args[1])
	if err != nil {
		return err
	}
	if a.Analysis.Version() != b.Analysis.Version() {
		return fmt.Errorf("%w: %d and %d", analysis.ErrVersionMismatch,
			a.Analysis.Version(), b.Analysis.Version())
	}

	fmt.Printf("euclidean: %.6f\n", playlist.Euclidean(a.Analysis, b.Analysis))
	fmt.Printf("cosine:    %.6f\n", playlist.Cosine(a.Analysis, b.Analysis))
	return nil
}
