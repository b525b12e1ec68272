// Package scanner enumerates playable audio files under a directory and
// turns them into playlist tracks.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"

	"github.com/llehouerou/crossdeck/internal/playlist"
)

// audioExtensions are the file extensions considered playable, matched
// case-insensitively.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
}

// IsAudioFile returns true if the path has a supported audio file extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// Scan walks root and returns a track for every audio file found, sorted by
// path (case-insensitive). With recursive false only the top level is read.
// Hidden entries are skipped. An empty result is not an error; an unreadable
// root is.
func Scan(root string, recursive bool) ([]playlist.Track, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var paths []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		// Skip unreadable entries - intentionally continuing to scan the rest
		if err != nil {
			return nil //nolint:nilerr
		}
		if path == root {
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !recursive {
				return fs.SkipDir
			}
			return nil
		}

		if IsAudioFile(path) {
			paths = append(paths, path)
		}
		return nil
	})

	sort.Slice(paths, func(i, j int) bool {
		return strings.ToLower(paths[i]) < strings.ToLower(paths[j])
	})

	tracks := make([]playlist.Track, 0, len(paths))
	for _, path := range paths {
		tracks = append(tracks, playlist.Track{
			Title: titleFor(path),
			URI:   path,
			Path:  path,
		})
	}
	return tracks, nil
}

// titleFor reads the title from the file's metadata, falling back to the
// file name without extension when there is none or it cannot be read.
func titleFor(path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil || m.Title() == "" {
		return fallback
	}
	return m.Title()
}
