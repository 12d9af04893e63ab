package physfs

import "github.com/go-physfs/physfs/internal/archiver"

// FileType classifies a Stat result.
type FileType = archiver.FileType

const (
	TypeRegular   = archiver.TypeRegular
	TypeDirectory = archiver.TypeDirectory
	TypeSymlink   = archiver.TypeSymlink
	TypeOther     = archiver.TypeOther
)

// Stat describes a single file or directory entry. Fields physfs-go cannot
// determine for a given archive format (most of the minor formats carry no
// timestamps) are set to -1.
type Stat struct {
	Filesize   int64
	ModTime    int64
	CreateTime int64
	AccessTime int64
	FileType   FileType
	ReadOnly   bool
}

// StatFile resolves filename and returns its metadata.
func StatFile(filename string) (Stat, error) {
	st, err := defaultLibrary().l.Stat(filename)

	return Stat(st), err
}

func (lib *Library) StatFile(filename string) (Stat, error) {
	st, err := lib.l.Stat(filename)

	return Stat(st), err
}

// Exists reports whether filename resolves to anything mounted.
func Exists(filename string) bool { return defaultLibrary().l.Exists(filename) }

func (lib *Library) Exists(filename string) bool { return lib.l.Exists(filename) }

// IsDirectory reports whether filename resolves to a directory.
func IsDirectory(filename string) bool { return defaultLibrary().l.IsDirectory(filename) }

func (lib *Library) IsDirectory(filename string) bool { return lib.l.IsDirectory(filename) }

// IsSymlink reports whether filename resolves to a symbolic link.
func IsSymlink(filename string) bool { return defaultLibrary().l.IsSymlink(filename) }

func (lib *Library) IsSymlink(filename string) bool { return lib.l.IsSymlink(filename) }

// GetRealDir returns the source name of the mount filename resolved
// through, or "" if it does not exist anywhere in the search path.
func GetRealDir(filename string) string { return defaultLibrary().l.GetRealDir(filename) }

func (lib *Library) GetRealDir(filename string) string { return lib.l.GetRealDir(filename) }

// Delete removes filename from the write directory.
func Delete(filename string) error { return defaultLibrary().l.Delete(filename) }

func (lib *Library) Delete(filename string) error { return lib.l.Delete(filename) }

// Mkdir creates dirname (and any missing ancestors) in the write directory.
func Mkdir(dirname string) error { return defaultLibrary().l.Mkdir(dirname) }

func (lib *Library) Mkdir(dirname string) error { return lib.l.Mkdir(dirname) }
