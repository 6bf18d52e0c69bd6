package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source is one discovered PNG input.
type Source struct {
	// Path is the absolute path to the file on disk.
	Path string
	// Rel is the path relative to the scanned root, using forward slashes.
	// For a file named directly it is the base name.
	Rel string
	// Size is the file size in bytes.
	Size int64
}

// Scan resolves CLI arguments into PNG sources. Directory arguments are
// walked recursively, skipping hidden subdirectories and non-PNG extensions.
// File arguments are taken as given; the decoder rejects non-PNG content by
// signature later, so an odd extension is not an error here.
func Scan(args []string) ([]Source, error) {
	var sources []Source
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			sources = append(sources, Source{Path: abs, Rel: filepath.Base(arg), Size: info.Size()})
			continue
		}
		found, err := scanDir(arg)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		sources = append(sources, found...)
	}
	return sources, nil
}

// scanDir walks root and returns every PNG file under it.
func scanDir(root string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories, but never the root itself.
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".png" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			Path: abs,
			Rel:  filepath.ToSlash(rel),
			Size: info.Size(),
		})
		return nil
	})

	return sources, err
}
