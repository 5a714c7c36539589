package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"songprint/internal/analysis"
	"songprint/internal/batch"
	"songprint/internal/decoder"
	"songprint/internal/library"
)

var analyzeWorkers int

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path...]",
	Short: "Scan directories and fingerprint every audio file",
	Long: `Walks the given directories (or the configured library paths when none
are given), fingerprints every audio file not already stored at the current
feature version, and saves the results. Unchanged files are skipped via a
content hash.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "j", 0, "concurrent analysis workers (0 = NumCPU-1)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = cfg.LibraryPaths
	}
	if len(roots) == 0 {
		return fmt.Errorf("no paths given and no library paths configured")
	}

	dec := decoder.New()
	if !dec.HasFFmpeg() {
		log.Printf("[ANALYZE] ffmpeg not found, decoding native formats only")
	}

	files, err := library.CollectAudioFiles(roots, dec.SupportedExtensions())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No audio files found")
		return nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	var pending []string
	for _, f := range files {
		hash, err := library.FileHash(f)
		if err != nil {
			log.Printf("[ANALYZE] Cannot hash %s: %v", f, err)
			continue
		}
		if store.Fresh(f, hash, analysis.CurrentVersion) {
			continue
		}
		pending = append(pending, f)
	}
	if len(pending) == 0 {
		fmt.Printf("Library up to date (%d files)\n", store.Count())
		return nil
	}

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowIts(),
	)

	workers := analyzeWorkers
	if workers == 0 {
		workers = cfg.Analysis.Workers
	}

	var mu sync.Mutex
	pool := batch.New(batch.Config{
		Workers: workers,
		Process: func(ctx context.Context, path string) (analysis.Song, string, error) {
			hash, err := library.FileHash(path)
			if err != nil {
				return analysis.Song{}, "", err
			}
			song, err := dec.Song(ctx, path)
			if err != nil {
				return analysis.Song{}, "", err
			}
			return song, hash, nil
		},
		OnResult: func(r batch.Result) {
			mu.Lock()
			defer mu.Unlock()
			bar.Add(1)
			if r.Err == nil {
				store.Put(r.Song, r.FileHash)
			}
		},
	})
	pool.Run(cmd.Context(), pending)
	fmt.Println()

	if err := store.Save(); err != nil {
		return err
	}
	fmt.Printf("Analyzed %d files (%d failed), %d in library\n",
		pool.Done(), pool.Failed(), store.Count())
	return nil
}
