// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths in
// lexical order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FileInfo pairs a path with its modification time and size.
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Newest returns the most recently modified of paths. Ties go to the path
// that sorts last, so the choice is stable.
func Newest(paths []string) (FileInfo, error) {
	if len(paths) == 0 {
		return FileInfo{}, fmt.Errorf("no files to choose from")
	}
	var best FileInfo
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return FileInfo{}, err
		}
		cand := FileInfo{Path: p, ModTime: info.ModTime(), Size: info.Size()}
		if best.Path == "" || cand.ModTime.After(best.ModTime) ||
			(cand.ModTime.Equal(best.ModTime) && cand.Path > best.Path) {
			best = cand
		}
	}
	return best, nil
}
