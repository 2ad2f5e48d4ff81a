// Package discovery lists the input files of a processing pass.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidMask is returned for masks doublestar cannot compile.
var ErrInvalidMask = errors.Base("invalid mask")

// ValidateMask reports whether mask is a usable file name pattern.
func ValidateMask(mask string) error {
	if !doublestar.ValidatePattern(mask) {
		return errors.WithMessagef(ErrInvalidMask, "%q", mask)
	}
	return nil
}

// Match reports whether a base name matches mask.
func Match(mask, name string) bool {
	ok, err := doublestar.Match(mask, name)
	return err == nil && ok
}

// Hidden reports whether name is a dotfile. Hidden files are never inputs,
// which also keeps the temp files of an interrupted write out of a pass.
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// List returns the names of regular, non-hidden files directly inside dir
// that match mask, in lexical order. No match is an empty slice, not an error.
// Symlinks are followed; anything that does not resolve to a regular file
// is skipped.
func List(dir, mask string) ([]string, error) {
	if err := ValidateMask(mask); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if Hidden(entry.Name()) || !Match(mask, entry.Name()) {
			continue
		}
		if !isRegular(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

func isRegular(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
