package vfs

import (
	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/errcode"
)

// OpenRead sanitizes path, resolves it across the search path (mounts in
// order; the write directory is not consulted unless separately mounted),
// and opens it for reading. Fails with ErrNotAFile if the resolved entry is
// a directory, and with ErrSymlinkForbidden if it is a symlink and
// PermitSymbolicLinks has not been called.
func (l *Library) OpenRead(path string) (*FileHandle, error) {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return nil, l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	l.stateMu.Lock()
	if !l.initialized {
		l.stateMu.Unlock()

		return nil, l.recordErr(errcode.New(errcode.ErrNotInitialized, "openRead", path, nil))
	}

	dh, archivePath, st, ok := l.statAt(sanitized)
	if !ok {
		l.stateMu.Unlock()

		return nil, l.recordErr(errcode.New(errcode.ErrNotFound, "openRead", path, nil))
	}

	if st.FileType == archiver.TypeDirectory {
		l.stateMu.Unlock()

		return nil, l.recordErr(errcode.New(errcode.ErrNotAFile, "openRead", path, nil))
	}

	if st.FileType == archiver.TypeSymlink && !l.allowSymlinks {
		l.stateMu.Unlock()

		return nil, l.recordErr(errcode.New(errcode.ErrSymlinkForbidden, "openRead", path, nil))
	}
	l.stateMu.Unlock()

	fh, oerr := l.openForRead(dh, archivePath)
	if oerr != nil {
		return nil, l.recordErr(oerr.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	return fh, nil
}

// OpenWrite sanitizes path and opens (creating/truncating) it for writing
// in the current write directory.
func (l *Library) OpenWrite(path string) (*FileHandle, error) {
	return l.openWriteOrAppend(path, false)
}

// OpenAppend sanitizes path and opens it for append-only writing in the
// current write directory.
func (l *Library) OpenAppend(path string) (*FileHandle, error) {
	return l.openWriteOrAppend(path, true)
}

func (l *Library) openWriteOrAppend(path string, appendMode bool) (*FileHandle, error) {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return nil, l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	l.stateMu.Lock()
	if !l.initialized {
		l.stateMu.Unlock()

		return nil, l.recordErr(errcode.New(errcode.ErrNotInitialized, "openWrite", path, nil))
	}
	l.stateMu.Unlock()

	fh, oerr := l.openForWrite(WithRoot(writeDirRoot(l), sanitized), appendMode)
	if oerr != nil {
		return nil, l.recordErr(oerr.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	return fh, nil
}

func writeDirRoot(l *Library) string {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.writeDir == nil {
		return ""
	}

	return l.writeDir.Root
}

// Stat resolves path and returns its archiver.Stat.
func (l *Library) Stat(path string) (archiver.Stat, error) {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return archiver.Stat{}, l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	_, _, st, ok := l.statAt(sanitized)
	if !ok {
		return archiver.Stat{}, l.recordErr(errcode.New(errcode.ErrNotFound, "stat", path, nil))
	}

	return st, nil
}

// Exists reports whether path resolves to anything in the search path (the
// write directory is not consulted unless it is also mounted).
func (l *Library) Exists(path string) bool {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return false
	}

	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	_, _, ok := l.resolve(sanitized)

	return ok
}

// IsDirectory reports whether path resolves to a directory entry.
func (l *Library) IsDirectory(path string) bool {
	st, err := l.Stat(path)

	return err == nil && st.FileType == archiver.TypeDirectory
}

// IsSymlink reports whether path resolves to a symlink entry.
func (l *Library) IsSymlink(path string) bool {
	st, err := l.Stat(path)

	return err == nil && st.FileType == archiver.TypeSymlink
}

// GetRealDir returns the SourceName of the DirHandle path resolves through,
// or "" if path does not exist.
func (l *Library) GetRealDir(path string) string {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return ""
	}

	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	dh, _, ok := l.resolve(sanitized)
	if !ok {
		return ""
	}

	return dh.SourceName
}

// Delete removes path from the write directory.
func (l *Library) Delete(path string) error {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.writeDir == nil {
		return l.recordErr(errcode.New(errcode.ErrNoWriteDir, "delete", path, nil))
	}

	archivePath := WithRoot(l.writeDir.Root, sanitized)
	if derr := l.writeDir.Archiver.Remove(l.writeDir.Opaque, archivePath); derr != nil {
		return l.recordErr(errcode.New(errcode.ErrIO, "delete", path, derr))
	}

	return nil
}

// Mkdir creates path (and any missing ancestors) in the write directory.
func (l *Library) Mkdir(path string) error {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.writeDir == nil {
		return l.recordErr(errcode.New(errcode.ErrNoWriteDir, "mkdir", path, nil))
	}

	archivePath := WithRoot(l.writeDir.Root, sanitized)
	if merr := l.writeDir.Archiver.Mkdir(l.writeDir.Opaque, archivePath); merr != nil {
		return l.recordErr(errcode.New(errcode.ErrIO, "mkdir", path, merr))
	}

	return nil
}
