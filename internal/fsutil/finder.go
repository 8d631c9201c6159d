// Package fsutil implements filesystem discovery for manifest loading.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtension recursively collects files under rootPath whose name
// ends with the given extension. Hidden files and directories are skipped,
// so VCS metadata and editor state sitting inside a manifest tree never
// contribute to a load.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden && path != rootPath {
				return filepath.SkipDir
			}
			return nil
		}
		if !hidden && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
