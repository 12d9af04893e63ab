package physfs

import "github.com/go-physfs/physfs/internal/iosource"

// Mount adds newDir (a native directory or archive file path) to the
// search path at mountPoint ("" or "/" for the root). If prepend is true,
// it is searched before every existing entry; otherwise it is appended.
func Mount(newDir, mountPoint string, prepend bool) error {
	return defaultLibrary().l.Mount(nil, newDir, mountPoint, prepend)
}

func (lib *Library) Mount(newDir, mountPoint string, prepend bool) error {
	return lib.l.Mount(nil, newDir, mountPoint, prepend)
}

// MountMemory mounts an in-memory archive image under name at mountPoint.
// data is not copied; the mounted source reads the caller's slice in place.
func MountMemory(data []byte, name, mountPoint string, prepend bool) error {
	return defaultLibrary().l.MountSource(iosource.NewMemory(data), name, mountPoint, prepend)
}

func (lib *Library) MountMemory(data []byte, name, mountPoint string, prepend bool) error {
	return lib.l.MountSource(iosource.NewMemory(data), name, mountPoint, prepend)
}

// MountHandle mounts an application-supplied Handle (any io.Reader +
// io.Seeker) as an archive named name, at mountPoint.
func MountHandle(h iosource.Handle, length int64, dup func() (iosource.Handle, bool), name, mountPoint string, prepend bool) error {
	return defaultLibrary().l.MountSource(iosource.NewWrapped(h, length, dup), name, mountPoint, prepend)
}

func (lib *Library) MountHandle(h iosource.Handle, length int64, dup func() (iosource.Handle, bool), name, mountPoint string, prepend bool) error {
	return lib.l.MountSource(iosource.NewWrapped(h, length, dup), name, mountPoint, prepend)
}

// Unmount removes oldDir's DirHandle from the search path. Fails with
// ErrFilesStillOpen if a read handle is still open against it.
func Unmount(oldDir string) error { return defaultLibrary().l.Unmount(oldDir) }

func (lib *Library) Unmount(oldDir string) error { return lib.l.Unmount(oldDir) }

// GetSearchPath returns the mounted source names, in search order.
func GetSearchPath() []string { return defaultLibrary().l.GetSearchPath() }

func (lib *Library) GetSearchPath() []string { return lib.l.GetSearchPath() }

// GetMountPoint returns dir's mount point, or an error if it isn't mounted.
func GetMountPoint(dir string) (string, error) { return defaultLibrary().l.GetMountPoint(dir) }

func (lib *Library) GetMountPoint(dir string) (string, error) { return lib.l.GetMountPoint(dir) }

// SetRoot attaches subdir as the effective root of an already-mounted
// archive or directory.
func SetRoot(dir, subdir string) error { return defaultLibrary().l.SetRoot(dir, subdir) }

func (lib *Library) SetRoot(dir, subdir string) error { return lib.l.SetRoot(dir, subdir) }

// SetWriteDir designates newDir as the single write directory.
func SetWriteDir(newDir string) error { return defaultLibrary().l.SetWriteDir(newDir) }

func (lib *Library) SetWriteDir(newDir string) error { return lib.l.SetWriteDir(newDir) }

// GetWriteDir returns the current write directory's native path, or "".
func GetWriteDir() string { return defaultLibrary().l.GetWriteDir() }

func (lib *Library) GetWriteDir() string { return lib.l.GetWriteDir() }

// SetSaneConfig wires up a conventional setup: write dir under
// GetPrefDir(org, app), plus the base directory (and matching archives)
// mounted read-only.
func SetSaneConfig(org, app, archiveExt string, includeCdroms, archivesFirst bool) error {
	return defaultLibrary().l.SetSaneConfig(org, app, archiveExt, includeCdroms, archivesFirst)
}

func (lib *Library) SetSaneConfig(org, app, archiveExt string, includeCdroms, archivesFirst bool) error {
	return lib.l.SetSaneConfig(org, app, archiveExt, includeCdroms, archivesFirst)
}
