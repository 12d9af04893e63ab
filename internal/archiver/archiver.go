// Package archiver defines the contract every format backend (ZIP, the
// generic unpacked-archive helper, and the minor format parsers) implements,
// plus the descriptor and claim type used to register and auto-detect them.
package archiver

import (
	"errors"
	"time"

	"github.com/go-physfs/physfs/internal/dirtree"
	"github.com/go-physfs/physfs/internal/iosource"
)

// FileType classifies a Stat result.
type FileType int

const (
	TypeRegular FileType = iota
	TypeDirectory
	TypeSymlink
	TypeOther
)

// Stat describes a single file or directory entry. Unknown fields are -1.
type Stat struct {
	Filesize   int64
	ModTime    int64
	CreateTime int64
	AccessTime int64
	FileType   FileType
	ReadOnly   bool
}

// Claim is the tri-state result of Archiver.OpenArchive's format-sniffing
// pass: a backend either does not recognize the data (ClaimNone, so the
// core tries the next archiver), recognizes and parsed it successfully
// (ClaimOK), or recognizes the format but finds it broken (ClaimBroken --
// the core must stop trying other archivers, since a corrupt ZIP is not a
// well-formed GRP file that happens to look similar).
type Claim int

const (
	ClaimNone Claim = iota
	ClaimOK
	ClaimBroken
)

// EnumResult mirrors dirtree.EnumResult for the Enumerate callback contract
// exposed across the archiver boundary.
type EnumResult = dirtree.EnumResult

const (
	EnumOK    = dirtree.EnumOK
	EnumStop  = dirtree.EnumStop
	EnumError = dirtree.EnumError
)

// EnumCallback is invoked once per child of dir during Enumerate.
type EnumCallback func(origdir, name string) EnumResult

// ErrCallbackAborted is returned by Enumerate when the caller's callback
// returned EnumError, as opposed to the clean-unwind EnumStop, so callers
// can distinguish the two and surface a distinct error code.
var ErrCallbackAborted = errors.New("archiver: enumerate callback reported an error")

// Archiver is the interface every archive-format backend implements.
// Opaque per-archive state is returned from OpenArchive as an `any` and
// threaded back through every subsequent call.
type Archiver interface {
	// Extension is the lowercase file extension (without dot) this archiver
	// is tried against first during auto-detection, e.g. "zip".
	Extension() string
	Description() string

	// SupportsSymlinks reports whether this format can represent symlinks
	// (only ZIP does, among the bundled backends).
	SupportsSymlinks() bool

	// OpenArchive attempts to parse io as this format. name is the
	// archive's source name (for diagnostics); forWriting requests a
	// writable open (unsupported by every bundled archiver except the
	// directory archiver).
	OpenArchive(src iosource.Source, name string, forWriting bool) (opaque any, claim Claim, err error)

	Enumerate(opaque any, dir string, cb EnumCallback, origdir string) error
	OpenRead(opaque any, path string) (iosource.Source, error)
	OpenWrite(opaque any, path string) (iosource.Source, error)
	OpenAppend(opaque any, path string) (iosource.Source, error)
	Remove(opaque any, path string) error
	Mkdir(opaque any, path string) error
	Stat(opaque any, path string) (Stat, error)
	CloseArchive(opaque any) error
}

// Descriptor carries an Archiver plus static metadata about who registered
// it.
type Descriptor struct {
	Archiver    Archiver
	Author      string
	URL         string
	RegisteredAt time.Time
}
