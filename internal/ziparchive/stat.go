package ziparchive

import (
	"strings"
	"time"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/diag"
	"github.com/go-physfs/physfs/internal/dirtree"
	"github.com/go-physfs/physfs/internal/iosource"
)

func asArchive(opaque any) (*Archive, bool) {
	a, ok := opaque.(*Archive)

	return a, ok
}

func (zipArchiver) Enumerate(opaque any, dir string, cb archiver.EnumCallback, origdir string) error {
	a, ok := asArchive(opaque)
	if !ok {
		return ErrBadCentral
	}

	_, result := a.tree.Enumerate(strings.TrimPrefix(dir, "/"), func(base string, child any) dirtree.EnumResult {
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

func (zipArchiver) OpenRead(opaque any, path string) (iosource.Source, error) {
	a, ok := asArchive(opaque)
	if !ok {
		return nil, ErrBadCentral
	}

	return a.openForRead(strings.TrimPrefix(path, "/"))
}

func (zipArchiver) OpenWrite(any, string) (iosource.Source, error) {
	return nil, ErrUnsupported
}

func (zipArchiver) OpenAppend(any, string) (iosource.Source, error) {
	return nil, ErrUnsupported
}

func (zipArchiver) Remove(any, string) error { return ErrUnsupported }
func (zipArchiver) Mkdir(any, string) error  { return ErrUnsupported }

func (zipArchiver) Stat(opaque any, path string) (archiver.Stat, error) {
	start := time.Now()
	defer func() {
		diag.Metrics.MetadataReadTime.Add(time.Since(start).Nanoseconds())
		diag.Metrics.MetadataReadCount.Add(1)
	}()

	a, ok := asArchive(opaque)
	if !ok {
		return archiver.Stat{}, ErrBadCentral
	}

	e, ok := a.lookupEntry(strings.TrimPrefix(path, "/"))
	if !ok {
		return archiver.Stat{}, ErrEntryNotFound
	}

	ft := archiver.TypeRegular
	switch {
	case e.isSymlink:
		ft = archiver.TypeSymlink
	case e.IsDir:
		ft = archiver.TypeDirectory
	}

	return archiver.Stat{
		Filesize:   e.uncompSize,
		ModTime:    e.modTime,
		CreateTime: e.modTime,
		AccessTime: e.modTime,
		FileType:   ft,
		ReadOnly:   true,
	}, nil
}

func (zipArchiver) CloseArchive(opaque any) error {
	a, ok := asArchive(opaque)
	if !ok {
		return nil
	}

	a.symlinkCache.DeleteAll()

	diag.Metrics.OpenArchives.Add(-1)
	diag.Metrics.TotalClosed.Add(1)

	return a.src.Destroy()
}
