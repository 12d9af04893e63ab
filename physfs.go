// Package physfs is a portable, sandboxed, read/write virtual filesystem
// for games: an ordered search path of mounted directories and archives,
// a single write directory, path sanitization that makes escaping the
// sandbox impossible, and pluggable archive-format backends (ZIP, 7-Zip,
// and several classic-engine container formats).
//
// Most applications use the package-level functions, which operate on a
// lazily-constructed default *vfs.Library backed by the OS platform
// adapter. Embedders that want multiple independent, isolated instances
// (e.g. a test harness mounting fixtures without touching global state)
// can construct their own via NewLibrary.
package physfs

import (
	"sync"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/formats/grp"
	"github.com/go-physfs/physfs/internal/formats/hog"
	"github.com/go-physfs/physfs/internal/formats/iso9660"
	"github.com/go-physfs/physfs/internal/formats/mvl"
	"github.com/go-physfs/physfs/internal/formats/qpak"
	"github.com/go-physfs/physfs/internal/formats/sevenz"
	"github.com/go-physfs/physfs/internal/formats/slb"
	"github.com/go-physfs/physfs/internal/formats/vdf"
	"github.com/go-physfs/physfs/internal/formats/wad"
	"github.com/go-physfs/physfs/internal/platform"
	"github.com/go-physfs/physfs/internal/vfs"
	"github.com/go-physfs/physfs/internal/ziparchive"
)

// Library is a self-contained virtual filesystem instance.
type Library struct {
	l *vfs.Library
}

// NewLibrary constructs an uninitialized Library backed by the OS platform
// adapter (native file I/O, real directories). Call Init before use.
func NewLibrary() *Library {
	return &Library{l: vfs.New(platform.OS{})}
}

var (
	defaultMu  sync.Mutex
	defaultLib *Library
)

func defaultLibrary() *Library {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLib == nil {
		defaultLib = NewLibrary()
	}

	return defaultLib
}

// Init initializes the package-level default Library. argv0 is recorded
// and must be non-empty; the base directory is derived from the running
// executable's path, not from argv0.
func Init(argv0 string) error {
	lib := defaultLibrary()
	if err := lib.l.Init(argv0); err != nil {
		return err
	}

	registerBuiltinArchivers(lib.l.Registry())

	return nil
}

// registerBuiltinArchivers wires every bundled format backend into reg.
// ZIP and 7-Zip are registered last, so the registry (which prepends)
// tries them before the minor engine-specific formats.
func registerBuiltinArchivers(reg *archiver.Registry) {
	builtins := []archiver.Archiver{
		grp.New(),
		slb.New(),
		vdf.New(),
		iso9660.New(),
		qpak.New(),
		wad.New(),
		mvl.New(),
		hog.New(),
		sevenz.New(),
		ziparchive.New(),
	}

	for _, a := range builtins {
		reg.Register(archiver.Descriptor{Archiver: a, Author: "physfs-go"})
	}
}

// Deinit tears down the package-level default Library: refuses while any
// write-opened file remains, otherwise closes every handle and archive
// and drops registered archivers.
func Deinit() error {
	return defaultLibrary().l.Deinit()
}

// IsInit reports whether Init has succeeded and Deinit has not since run.
func IsInit() bool {
	return defaultLibrary().l.IsInit()
}

// Init initializes lib (an independently-constructed Library), registering
// every bundled archiver backend.
func (lib *Library) Init(argv0 string) error {
	if err := lib.l.Init(argv0); err != nil {
		return err
	}

	registerBuiltinArchivers(lib.l.Registry())

	return nil
}

// Deinit tears lib down.
func (lib *Library) Deinit() error { return lib.l.Deinit() }

// IsInit reports whether lib is initialized.
func (lib *Library) IsInit() bool { return lib.l.IsInit() }

// PermitSymbolicLinks toggles symlink-following for name resolution.
func PermitSymbolicLinks(allow bool) { defaultLibrary().l.PermitSymbolicLinks(allow) }

func (lib *Library) PermitSymbolicLinks(allow bool) { lib.l.PermitSymbolicLinks(allow) }

// SymbolicLinksPermitted reports the current PermitSymbolicLinks setting.
func SymbolicLinksPermitted() bool { return defaultLibrary().l.SymbolicLinksPermitted() }

func (lib *Library) SymbolicLinksPermitted() bool { return lib.l.SymbolicLinksPermitted() }

// GetLastErrorCode returns and clears the calling goroutine's last
// recorded error code -- an ABI-parity shim; idiomatic callers should
// prefer checking the error value a call returned directly.
func GetLastErrorCode() ErrorCode { return defaultLibrary().l.GetLastErrorCode() }

func (lib *Library) GetLastErrorCode() ErrorCode { return lib.l.GetLastErrorCode() }
