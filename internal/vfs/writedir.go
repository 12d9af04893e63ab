package vfs

import (
	"github.com/go-physfs/physfs/internal/dirarchiver"
	"github.com/go-physfs/physfs/internal/errcode"
)

// SetWriteDir designates newDir (a native directory path, created if
// necessary) as the single write directory: there is at most one, and it
// is not a member of the search path -- reads/Stat/Enumerate never see it
// unless the caller also mounts it explicitly. Passing "" clears it. Fails
// with FilesStillOpen if any write handle is still open against the
// previous write dir.
func (l *Library) SetWriteDir(newDir string) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if !l.initialized {
		return l.recordErr(errcode.New(errcode.ErrNotInitialized, "setWriteDir", newDir, nil))
	}

	if len(l.writeHandles) > 0 {
		return l.recordErr(errcode.New(errcode.ErrFilesStillOpen, "setWriteDir", newDir, nil))
	}

	if l.writeDir != nil {
		_ = l.writeDir.Archiver.CloseArchive(l.writeDir.Opaque)
		l.writeDir = nil
	}

	if newDir == "" {
		return nil
	}

	if err := l.platform.Mkdir(newDir); err != nil {
		return l.recordErr(errcode.New(errcode.ErrIO, "setWriteDir", newDir, err))
	}

	a := dirarchiver.New(l.platform)

	opaque, _, err := a.OpenArchive(nil, newDir, true)
	if err != nil {
		return l.recordErr(errcode.New(errcode.ErrIO, "setWriteDir", newDir, err))
	}

	l.writeDir = &DirHandle{
		Opaque:     opaque,
		SourceName: newDir,
		MountPoint: "/",
		Archiver:   a,
	}

	return nil
}

// GetWriteDir returns the current write directory's native path, or "" if
// none is set.
func (l *Library) GetWriteDir() string {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.writeDir == nil {
		return ""
	}

	return l.writeDir.SourceName
}
