// Package resolver picks file names that do not collide with existing
// entries of a directory.
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Resolve returns name if dir has no entry called name, otherwise the first
// of stem-1.ext, stem-2.ext, ... that is free. The check and a later create
// are not atomic; callers that must not overwrite need a no-replace move.
func Resolve(dir, name string) (string, error) {
	if name == "" {
		return "", errors.New("empty file name")
	}

	stem, ext := SplitExt(name)

	candidate := name
	for counter := 1; ; counter++ {
		taken, err := exists(filepath.Join(dir, candidate))
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}

		candidate = stem + "-" + strconv.Itoa(counter) + ext
	}
}

// SplitExt splits name into stem and extension. Leading dots belong to the
// stem, so ".bashrc" has no extension and ".env.local" has ".local".
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(strings.TrimLeft(name, "."))
	return name[:len(name)-len(ext)], ext
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
}
