package dirtree

import "errors"

// ErrConflict is returned by Add when path already exists with a different
// IsDir than requested: a directory tree built from contradictory archive
// metadata (e.g. a central directory that lists both a file and a
// directory at the same path).
var ErrConflict = errors.New("dirtree: entry exists with conflicting type")
