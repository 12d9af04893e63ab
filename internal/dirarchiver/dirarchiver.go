// Package dirarchiver is the archiver backend for a plain host directory
// mounted directly into the search path (no archive file involved). It
// satisfies the same archiver.Archiver contract as ZIP and the minor
// formats so the core can treat a mounted directory uniformly.
package dirarchiver

import (
	"path/filepath"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/platform"
)

type dirArchiver struct {
	platform platform.Adapter
}

// New builds the directory archiver bound to p, used for every native-
// directory mount.
func New(p platform.Adapter) archiver.Archiver {
	return &dirArchiver{platform: p}
}

type state struct {
	root string // native-notation absolute (or cwd-relative) directory root
}

func (a *dirArchiver) Extension() string    { return "" }
func (a *dirArchiver) Description() string  { return "plain host directory" }
func (a *dirArchiver) SupportsSymlinks() bool { return true }

func (a *dirArchiver) OpenArchive(_ iosource.Source, name string, forWriting bool) (any, archiver.Claim, error) {
	_ = forWriting

	return &state{root: name}, archiver.ClaimOK, nil
}

func (a *dirArchiver) native(opaque any, path string) string {
	st := opaque.(*state) //nolint:forcetypeassert

	return filepath.Join(st.root, filepath.FromSlash(path))
}

func (a *dirArchiver) Enumerate(opaque any, dir string, cb archiver.EnumCallback, origdir string) error {
	entries, err := a.platform.ReadDir(a.native(opaque, dir))
	if err != nil {
		return nil //nolint:nilerr // non-existent/unreadable dir enumerates empty
	}

	for _, e := range entries {
		switch cb(origdir, e.Name) {
		case archiver.EnumStop:
			return nil
		case archiver.EnumError:
			return archiver.ErrCallbackAborted
		case archiver.EnumOK:
			continue
		}
	}

	return nil
}

func (a *dirArchiver) OpenRead(opaque any, path string) (iosource.Source, error) {
	return iosource.OpenNativeRead(a.native(opaque, path))
}

func (a *dirArchiver) OpenWrite(opaque any, path string) (iosource.Source, error) {
	native := a.native(opaque, path)
	_ = a.platform.Mkdir(filepath.Dir(native))

	return iosource.OpenNativeWrite(native, false)
}

func (a *dirArchiver) OpenAppend(opaque any, path string) (iosource.Source, error) {
	native := a.native(opaque, path)
	_ = a.platform.Mkdir(filepath.Dir(native))

	return iosource.OpenNativeWrite(native, true)
}

func (a *dirArchiver) Remove(opaque any, path string) error {
	return a.platform.Remove(a.native(opaque, path))
}

func (a *dirArchiver) Mkdir(opaque any, path string) error {
	return a.platform.Mkdir(a.native(opaque, path))
}

func (a *dirArchiver) Stat(opaque any, path string) (archiver.Stat, error) {
	st, err := a.platform.Stat(a.native(opaque, path), false)
	if err != nil {
		return archiver.Stat{}, err
	}

	ft := archiver.TypeRegular
	switch {
	case st.IsSymlink:
		ft = archiver.TypeSymlink
	case st.IsDir:
		ft = archiver.TypeDirectory
	}

	return archiver.Stat{
		Filesize:   st.Size,
		ModTime:    st.ModTime.Unix(),
		CreateTime: st.ModTime.Unix(),
		AccessTime: st.ModTime.Unix(),
		FileType:   ft,
		ReadOnly:   st.ReadOnly,
	}, nil
}

func (a *dirArchiver) CloseArchive(_ any) error { return nil }
