package physfs

import "github.com/go-physfs/physfs/internal/archiver"

// EnumResult is returned by an Enumerate callback to control iteration.
type EnumResult = archiver.EnumResult

const (
	EnumOK    = archiver.EnumOK
	EnumStop  = archiver.EnumStop
	EnumError = archiver.EnumError
)

// Enumerate walks dir's entries across every search-path mount that covers
// it, in search-path order, invoking cb once per distinct basename. The
// write directory is not consulted unless it is also mounted.
func Enumerate(dir string, cb func(name string) EnumResult) error {
	return defaultLibrary().l.Enumerate(dir, cb)
}

func (lib *Library) Enumerate(dir string, cb func(name string) EnumResult) error {
	return lib.l.Enumerate(dir, cb)
}

// EnumerateFiles collects every basename Enumerate would report into a
// slice; the allocation-heavy convenience form.
func EnumerateFiles(dir string) ([]string, error) {
	return defaultLibrary().l.EnumerateFiles(dir)
}

func (lib *Library) EnumerateFiles(dir string) ([]string, error) {
	return lib.l.EnumerateFiles(dir)
}
