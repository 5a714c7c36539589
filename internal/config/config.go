// Package config handles configuration file management for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"songprint/internal/playlist"
)

// Config represents the persisted settings.
type Config struct {
	// LibraryPaths is a list of directories containing music files
	LibraryPaths []string `json:"libraryPaths"`

	// DataDir is where the fingerprint store lives
	DataDir string `json:"dataDir"`

	// Analysis settings
	Analysis AnalysisConfig `json:"analysis"`

	// Playlist settings
	Playlist PlaylistConfig `json:"playlist"`
}

// AnalysisConfig contains batch analysis settings.
type AnalysisConfig struct {
	// Workers is the number of concurrent analysis workers (0 = NumCPU-1)
	Workers int `json:"workers"`
}

// PlaylistConfig contains playlist generation settings.
type PlaylistConfig struct {
	// Metric is "euclidean" or "cosine" (default: euclidean)
	Metric string `json:"metric"`

	// DedupThreshold is the distance below which adjacent songs are dropped
	DedupThreshold float32 `json:"dedupThreshold"`

	// MaxLength caps generated playlists; 0 means unlimited
	MaxLength int `json:"maxLength"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LibraryPaths: []string{},
		Analysis: AnalysisConfig{
			Workers: 0,
		},
		Playlist: PlaylistConfig{
			Metric:         "euclidean",
			DedupThreshold: playlist.DefaultDedupThreshold,
			MaxLength:      0,
		},
	}
}

// Metric resolves the configured metric name.
func (c *Config) Metric() (playlist.Metric, error) {
	switch c.Playlist.Metric {
	case "", "euclidean":
		return playlist.Euclidean, nil
	case "cosine":
		return playlist.Cosine, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", c.Playlist.Metric)
	}
}

// Manager handles loading and saving configuration.
type Manager struct {
	configDir  string
	configPath string
	config     *Config
}

// NewManager creates a new configuration manager.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, creating a default file when none
// exists.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if config.DataDir == "" {
		config.DataDir = m.configDir
	}
	m.config = config
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// GetPath returns the config file path.
func (m *Manager) GetPath() string {
	return m.configPath
}

// AddLibraryPath adds a library path if not already present.
func (m *Manager) AddLibraryPath(path string) error {
	for _, p := range m.config.LibraryPaths {
		if p == path {
			return nil
		}
	}
	m.config.LibraryPaths = append(m.config.LibraryPaths, path)
	return m.Save()
}
