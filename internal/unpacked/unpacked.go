// Package unpacked implements the generic "flat list of uncompressed
// records" archive helper shared by the minor format backends (GRP, HOG,
// MVL, WAD, QPAK, SLB): each of those formats differs only in its header
// layout, but all describe a flat list of (name, offset, size) records
// stored uncompressed within one backing file. This package owns the
// shared directory tree, read-path, and stat/enumerate logic; each format
// package supplies only its own header parser.
package unpacked

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/dirtree"
	"github.com/go-physfs/physfs/internal/iosource"
)

// RawEntry is one record a format-specific header parser extracts.
type RawEntry struct {
	Name   string
	Offset int64
	Size   int64
}

type entry struct {
	dirtree.Entry

	offset int64
	size   int64
}

func (e *entry) DirtreeEntry() *dirtree.Entry { return &e.Entry }

// Archive is the shared opaque state every minor-format Archiver stores.
type Archive struct {
	src  iosource.Source
	tree *dirtree.Tree
}

// New builds an Archive from src and the records a format parser already
// extracted. Directories are synthesized automatically from path
// components, per dirtree.Add's ancestor-creation behavior.
func New(src iosource.Source, entries []RawEntry) (*Archive, error) {
	a := &Archive{src: src}

	a.tree = dirtree.New(func(name string, isdir bool) (*dirtree.Entry, any) {
		e := &entry{}
		e.Name = name
		e.IsDir = isdir

		return &e.Entry, e
	})

	for _, re := range entries {
		owner, err := a.tree.Add(re.Name, false)
		if err != nil {
			return nil, fmt.Errorf("unpacked: add %q: %w", re.Name, err)
		}

		en, ok := owner.(*entry)
		if !ok {
			return nil, fmt.Errorf("unpacked: add %q: unexpected owner type", re.Name)
		}
		en.offset = re.Offset
		en.size = re.Size
	}

	return a, nil
}

func (a *Archive) lookup(path string) (*entry, bool) {
	owner := a.tree.Find(strings.TrimPrefix(path, "/"))
	if owner == nil {
		return nil, false
	}

	e, ok := owner.(*entry)

	return e, ok
}

func (a *Archive) Enumerate(dir string, cb archiver.EnumCallback, origdir string) error {
	_, result := a.tree.Enumerate(strings.TrimPrefix(dir, "/"), func(base string, _ any) dirtree.EnumResult {
		switch cb(origdir, base) {
		case archiver.EnumStop:
			return dirtree.EnumStop
		case archiver.EnumError:
			return dirtree.EnumError
		default:
			return dirtree.EnumOK
		}
	})

	if result == dirtree.EnumError {
		return archiver.ErrCallbackAborted
	}

	return nil
}

func (a *Archive) OpenRead(path string) (iosource.Source, error) {
	e, ok := a.lookup(path)
	if !ok || e.IsDir {
		return nil, fmt.Errorf("unpacked: %q not found", path)
	}

	dup, ok := a.src.Duplicate()
	if !ok {
		dup = a.src
	}

	if err := dup.Seek(e.offset); err != nil {
		return nil, fmt.Errorf("unpacked: seek: %w", err)
	}

	return &rangeSource{dup: dup, base: e.offset, size: e.size}, nil
}

func (a *Archive) Stat(path string) (archiver.Stat, error) {
	e, ok := a.lookup(path)
	if !ok {
		return archiver.Stat{}, fmt.Errorf("unpacked: %q not found", path)
	}

	ft := archiver.TypeRegular
	if e.IsDir {
		ft = archiver.TypeDirectory
	}

	return archiver.Stat{Filesize: e.size, FileType: ft, ReadOnly: true, ModTime: -1, CreateTime: -1, AccessTime: -1}, nil
}

func (a *Archive) CloseArchive() error { return a.src.Destroy() }

// rangeSource is a read-only iosource.Source over [base, base+size) of an
// owned duplicate of the archive's backing source.
type rangeSource struct {
	dup  iosource.Source
	base int64
	size int64
	pos  int64
}

func (r *rangeSource) Read(p []byte) (int, error) {
	remaining := r.size - r.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := r.dup.Read(p)
	r.pos += int64(n)

	return n, err //nolint:wrapcheck
}

func (r *rangeSource) Write([]byte) (int, error) { return 0, fmt.Errorf("unpacked: read-only") }

func (r *rangeSource) Seek(offset int64) error {
	if err := r.dup.Seek(r.base + offset); err != nil {
		return fmt.Errorf("unpacked: seek: %w", err)
	}
	r.pos = offset

	return nil
}

func (r *rangeSource) Tell() (int64, error) { return r.pos, nil }

func (r *rangeSource) Length() (int64, error) { return r.size, nil }

func (r *rangeSource) Duplicate() (iosource.Source, bool) {
	dup, ok := r.dup.Duplicate()
	if !ok {
		return nil, false
	}

	if err := dup.Seek(r.base + r.pos); err != nil {
		_ = dup.Destroy()

		return nil, false
	}

	return &rangeSource{dup: dup, base: r.base, size: r.size, pos: r.pos}, true
}

func (r *rangeSource) Flush() error { return nil }

func (r *rangeSource) Destroy() error { return r.dup.Destroy() }
