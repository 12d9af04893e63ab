// Package platform is the adapter seam between the virtual filesystem core
// and the host OS: native file operations, directory enumeration, and
// base/user/pref/CD-ROM directory discovery. A default os-backed
// implementation ships so the library works standalone, but it is
// explicitly the swappable edge, not part of the core.
package platform

import (
	"os"
	"path/filepath"
	"time"
)

// DirEntry is one result of Adapter.ReadDir.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Stat is the native-filesystem stat result the directory archiver
// translates into archiver.Stat.
type Stat struct {
	Size     int64
	ModTime  time.Time
	IsDir    bool
	IsSymlink bool
	ReadOnly bool
}

// Adapter is the platform seam. Every method may block.
type Adapter interface {
	// Stat returns native filesystem metadata for path, following symlinks
	// only if followSymlink is true (the core calls with false whenever
	// symlinks are forbidden, to detect and reject them per-component).
	Stat(path string, followSymlink bool) (Stat, error)

	ReadDir(path string) ([]DirEntry, error)
	Mkdir(path string) error
	Remove(path string) error
	IsDirectory(path string) (bool, error)

	// BaseDir is the directory containing the running executable.
	BaseDir() (string, error)
	// UserDir is the current user's home directory.
	UserDir() (string, error)
	// PrefDir is the per-user, per-application preferences directory.
	PrefDir(org, app string) (string, error)
	// CDROMDirs lists currently mounted CD/DVD-ROM volumes.
	CDROMDirs() ([]string, error)
}

// OS is the default Adapter, backed directly by the os package.
type OS struct{}

var _ Adapter = OS{}

func (OS) Stat(path string, followSymlink bool) (Stat, error) {
	var (
		info os.FileInfo
		err  error
	)

	if followSymlink {
		info, err = os.Stat(path)
	} else {
		info, err = os.Lstat(path)
	}
	if err != nil {
		return Stat{}, err //nolint:wrapcheck
	}

	isSymlink := info.Mode()&os.ModeSymlink != 0

	return Stat{
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		IsDir:     info.IsDir(),
		IsSymlink: isSymlink,
		ReadOnly:  info.Mode().Perm()&0o200 == 0, //nolint:mnd
	}, nil
}

func (OS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}

	return out, nil
}

func (OS) Mkdir(path string) error {
	return os.MkdirAll(path, 0o755) //nolint:wrapcheck,mnd
}

func (OS) Remove(path string) error {
	return os.Remove(path) //nolint:wrapcheck
}

func (OS) IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return info.IsDir(), nil
}

func (OS) BaseDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return filepath.Dir(exe), nil
}

func (OS) UserDir() (string, error) {
	return os.UserHomeDir() //nolint:wrapcheck
}

func (OS) PrefDir(org, app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return filepath.Join(base, org, app), nil
}

func (OS) CDROMDirs() ([]string, error) {
	// The default adapter reports no CD-ROM volumes. A platform-specific
	// Adapter can implement real detection (e.g. parsing /proc/mounts on
	// Linux).
	return nil, nil
}
