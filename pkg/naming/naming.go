// Package naming picks collision-free output paths.
//
// Resolution is best-effort: nothing stops another process from creating
// the chosen path between Resolve and the write. Only one writer per output
// directory is supported.
package naming

import (
	"context"
	"path/filepath"
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// ErrProbesExhausted is returned when every suffix up to the probe cap is taken.
var ErrProbesExhausted = errors.Base("no free output name")

// Exister reports whether a path is taken.
type Exister interface {
	FileExists(ctx context.Context, path string) (bool, error)
}

// Resolve returns the path to write base to inside dir. With overwrite, or
// when dir/base is free, that is dir/base. Otherwise it probes dir/base.1,
// dir/base.2, ... and returns the first free one. maxProbe caps the number
// of suffixes tried; 0 probes without bound.
func Resolve(ctx context.Context, fs Exister, dir, base string, overwrite bool, maxProbe int) (string, error) {
	target := filepath.Join(dir, base)
	if overwrite {
		return target, nil
	}

	taken, err := fs.FileExists(ctx, target)
	if err != nil {
		return "", errors.Errorf("checking %s: %w", target, err)
	}
	if !taken {
		return target, nil
	}

	for n := 1; maxProbe == 0 || n <= maxProbe; n++ {
		candidate := target + "." + strconv.Itoa(n)
		taken, err := fs.FileExists(ctx, candidate)
		if err != nil {
			return "", errors.Errorf("checking %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", errors.WithMessagef(ErrProbesExhausted, "%s after %d suffixes", target, maxProbe)
}
