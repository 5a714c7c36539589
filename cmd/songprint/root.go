// Command songprint fingerprints a music library and generates playlists
// ordered by acoustic similarity.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"songprint/internal/config"
	"songprint/internal/library"
)

var (
	configDir string
	dataDir   string
	version   = "0.2.0"
)

var rootCmd = &cobra.Command{
	Use:   "songprint",
	Short: "Audio fingerprinting and similarity playlists",
	Long: `songprint analyzes audio files into fixed-length acoustic fingerprints
(tempo, spectral shape, loudness, zero-crossing rate and tonal interval
features) and uses distances between fingerprints to order playlists,
drop near-duplicates and group albums by similarity.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: user config dir + /songprint)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the fingerprint store directory")

	rootCmd.SetVersionTemplate("songprint version {{.Version}}\n")
	rootCmd.Version = version
}

func loadConfig() (*config.Config, error) {
	dir := configDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate config directory: %w", err)
		}
		dir = filepath.Join(base, "songprint")
	}

	mgr := config.NewManager(dir)
	if err := mgr.Load(); err != nil {
		return nil, err
	}

	cfg := mgr.Get()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*library.Store, error) {
	store, err := library.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open fingerprint store: %w", err)
	}
	return store, nil
}
