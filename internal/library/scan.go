package library

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CollectAudioFiles walks each root and returns the paths whose extension is
// in exts (lowercase, with dot), sorted for deterministic batch order.
// Hidden directories are skipped.
func CollectAudioFiles(roots []string, exts []string) ([]string, error) {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if allowed[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// FileHash returns a cheap change-detection hash: path, size and the first
// and last 64 KiB of content. Not a full content digest.
func FileHash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	size := info.Size()

	hasher := sha256.New()
	hasher.Write([]byte(fmt.Sprintf("%s:%d", path, size)))

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 65536)
	n, _ := f.Read(buf)
	hasher.Write(buf[:n])

	if size > 65536 {
		if _, err := f.Seek(-65536, io.SeekEnd); err == nil {
			n, _ = f.Read(buf)
			hasher.Write(buf[:n])
		}
	}

	return hex.EncodeToString(hasher.Sum(nil))[:16], nil
}
