// Package library persists fingerprints between runs and finds the audio
// files to feed the analyzer. The store is a single JSON file keyed by path,
// with a content hash per entry for change detection.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"songprint/internal/analysis"
)

const storeFileName = "songprint.json"

// StoredSong is the on-disk record for one analyzed file.
type StoredSong struct {
	Features   []float32 `json:"features"`
	Version    uint16    `json:"version"`
	FileHash   string    `json:"fileHash"`
	AnalyzedAt int64     `json:"analyzedAt"`

	Artist      string `json:"artist,omitempty"`
	Title       string `json:"title,omitempty"`
	Album       string `json:"album,omitempty"`
	AlbumArtist string `json:"albumArtist,omitempty"`
	TrackNumber string `json:"trackNumber,omitempty"`
	Disc        string `json:"disc,omitempty"`
	Genre       string `json:"genre,omitempty"`
	DurationMs  int64  `json:"durationMs,omitempty"`
}

// Store caches fingerprints in memory and saves them as one JSON document.
type Store struct {
	mu       sync.RWMutex
	dataPath string
	songs    map[string]*StoredSong
}

// NewStore opens (or initializes) the store under dataDir.
func NewStore(dataDir string) (*Store, error) {
	store := &Store{
		dataPath: filepath.Join(dataDir, storeFileName),
		songs:    make(map[string]*StoredSong),
	}
	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load store: %w", err)
		}
	}
	return store, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.dataPath)
	if err != nil {
		return err
	}

	var stored struct {
		Songs map[string]*StoredSong `json:"songs"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	s.songs = stored.Songs
	if s.songs == nil {
		s.songs = make(map[string]*StoredSong)
	}
	return nil
}

// Save writes the store to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := struct {
		Songs map[string]*StoredSong `json:"songs"`
	}{Songs: s.songs}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.dataPath), 0700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.dataPath, data, 0600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Put stores one analyzed song under its path.
func (s *Store) Put(song analysis.Song, fileHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.songs[song.Path] = &StoredSong{
		Features:    song.Analysis.AsSlice(),
		Version:     uint16(song.Analysis.Version()),
		FileHash:    fileHash,
		AnalyzedAt:  time.Now().Unix(),
		Artist:      song.Artist,
		Title:       song.Title,
		Album:       song.Album,
		AlbumArtist: song.AlbumArtist,
		TrackNumber: song.TrackNumber,
		Disc:        song.Disc,
		Genre:       song.Genre,
		DurationMs:  song.Duration.Milliseconds(),
	}
}

// Get reconstructs a Song from its stored record. A record whose feature
// vector no longer matches its version is treated as absent.
func (s *Store) Get(path string) (analysis.Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.songs[path]
	if !ok {
		return analysis.Song{}, false
	}
	song, err := stored.toSong(path)
	if err != nil {
		return analysis.Song{}, false
	}
	return song, true
}

// Fresh reports whether path already has a record with the given hash at
// version minVersion or later. Stale or outdated records need re-analysis.
func (s *Store) Fresh(path, fileHash string, minVersion analysis.Version) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.songs[path]
	return ok && stored.FileHash == fileHash && analysis.Version(stored.Version) >= minVersion
}

// All returns every valid stored song.
func (s *Store) All() []analysis.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	songs := make([]analysis.Song, 0, len(s.songs))
	for path, stored := range s.songs {
		song, err := stored.toSong(path)
		if err != nil {
			continue
		}
		songs = append(songs, song)
	}
	return songs
}

// Remove drops the record for path, if any.
func (s *Store) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.songs, path)
}

// Count returns the number of stored songs.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.songs)
}

func (st *StoredSong) toSong(path string) (analysis.Song, error) {
	a, err := analysis.New(st.Features, analysis.Version(st.Version))
	if err != nil {
		return analysis.Song{}, err
	}
	return analysis.Song{
		Path:        path,
		Artist:      st.Artist,
		Title:       st.Title,
		Album:       st.Album,
		AlbumArtist: st.AlbumArtist,
		TrackNumber: st.TrackNumber,
		Disc:        st.Disc,
		Genre:       st.Genre,
		Duration:    time.Duration(st.DurationMs) * time.Millisecond,
		Analysis:    a,
	}, nil
}
