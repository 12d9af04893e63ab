package unpacked

import (
	"errors"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
)

// ErrReadOnly is returned by every mutating call on a Backend; none of the
// flat-record minor formats support writing.
var ErrReadOnly = errors.New("unpacked: archive format is read-only")

// ParseFunc sniffs and parses a format's header/table from src (positioned
// at offset 0) into a flat record list. A ParseFunc that doesn't recognize
// the data should return (nil, false, nil) so the core tries other
// archivers; a recognized-but-corrupt header returns a non-nil error.
type ParseFunc func(src iosource.Source) (entries []RawEntry, recognized bool, err error)

// Backend is a ready-made archiver.Archiver for any format whose entire
// shape is "parse a header/table into records, then serve flat byte
// ranges" -- every minor format bundled with physfs-go is built this way.
type Backend struct {
	ext    string
	desc   string
	parse  ParseFunc
}

// NewBackend builds a Backend. ext is the lowercase extension tried first
// during auto-detection; parse does the format-specific header/table work.
func NewBackend(ext, desc string, parse ParseFunc) archiver.Archiver {
	return &Backend{ext: ext, desc: desc, parse: parse}
}

func (b *Backend) Extension() string      { return b.ext }
func (b *Backend) Description() string    { return b.desc }
func (b *Backend) SupportsSymlinks() bool { return false }

func (b *Backend) OpenArchive(src iosource.Source, _ string, forWriting bool) (any, archiver.Claim, error) {
	if forWriting {
		return nil, archiver.ClaimNone, ErrReadOnly
	}

	entries, recognized, err := b.parse(src)
	if !recognized {
		return nil, archiver.ClaimNone, nil
	}
	if err != nil {
		return nil, archiver.ClaimBroken, err
	}

	a, err := New(src, entries)
	if err != nil {
		return nil, archiver.ClaimBroken, err
	}

	return a, archiver.ClaimOK, nil
}

func (b *Backend) Enumerate(opaque any, dir string, cb archiver.EnumCallback, origdir string) error {
	return opaque.(*Archive).Enumerate(dir, cb, origdir) //nolint:forcetypeassert
}

func (b *Backend) OpenRead(opaque any, path string) (iosource.Source, error) {
	return opaque.(*Archive).OpenRead(path) //nolint:forcetypeassert
}

func (b *Backend) OpenWrite(any, string) (iosource.Source, error) { return nil, ErrReadOnly }

func (b *Backend) OpenAppend(any, string) (iosource.Source, error) { return nil, ErrReadOnly }

func (b *Backend) Remove(any, string) error { return ErrReadOnly }

func (b *Backend) Mkdir(any, string) error { return ErrReadOnly }

func (b *Backend) Stat(opaque any, path string) (archiver.Stat, error) {
	return opaque.(*Archive).Stat(path) //nolint:forcetypeassert
}

func (b *Backend) CloseArchive(opaque any) error {
	return opaque.(*Archive).CloseArchive() //nolint:forcetypeassert
}

// ReadFull reads exactly len(buf) bytes from src, short of EOF, mirroring
// io.ReadFull for the iosource.Source interface (which isn't quite
// io.Reader-compatible enough for io.ReadFull's fast path with every
// implementation).
func ReadFull(src iosource.Source, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := src.Read(buf[total:])
		total += n
		if err != nil {
			return total, err //nolint:wrapcheck
		}
		if n == 0 {
			break
		}
	}

	return total, nil
}
