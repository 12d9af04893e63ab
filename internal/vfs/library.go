// Package vfs implements the virtual filesystem core: the ordered search
// path, mount points, write directory, path sanitization, name resolution,
// buffered file handles, and archiver registry. It is a single `Library`
// struct rather than global mutable state; a facade (package physfs)
// provides the free-function API by delegating to a process-wide default
// instance.
package vfs

import (
	"sync"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/errcode"
	"github.com/go-physfs/physfs/internal/goid"
	"github.com/go-physfs/physfs/internal/platform"
)

// Allocator is a pluggable malloc/realloc/free hook. Go's runtime
// allocator makes this mostly vestigial, but buffer-heavy callers
// (e.g. embedders with their own arena) can still install one before Init;
// physfs-go's own buffers (read/write handle buffers) are allocated through
// it.
type Allocator interface {
	Alloc(size int) []byte
}

type defaultAllocator struct{}

func (defaultAllocator) Alloc(size int) []byte { return make([]byte, size) }

// Library is the core virtual filesystem instance. The zero value is not
// usable; construct with New.
type Library struct {
	// stateMu serializes mutations to the search path, write dir, handle
	// lists, and archiver registry.
	stateMu sync.Mutex

	initialized   bool
	allowSymlinks bool
	allocator     Allocator
	platform      platform.Adapter
	registry      *archiver.Registry

	searchHead *DirHandle
	writeDir   *DirHandle

	readHandles  map[*FileHandle]struct{}
	writeHandles map[*FileHandle]struct{}

	// errMu protects lastErr. It is a distinct lock from stateMu:
	// SetErrorCode must never recursively take the state lock.
	errMu   sync.Mutex
	lastErr map[int64]errcode.ErrorCode

	baseDir string
	argv0   string
}

// New constructs a Library bound to the given platform adapter. Most
// callers should use physfs.Init, which lazily constructs a package-level
// default Library backed by platform.OS{}.
func New(p platform.Adapter) *Library {
	return &Library{
		platform:     p,
		registry:     archiver.NewRegistry(),
		readHandles:  make(map[*FileHandle]struct{}),
		writeHandles: make(map[*FileHandle]struct{}),
		lastErr:      make(map[int64]errcode.ErrorCode),
		allocator:    defaultAllocator{},
	}
}

// Init performs one-time, idempotent-guarded setup: it records argv0 and
// computes the base directory via the platform adapter.
func (l *Library) Init(argv0 string) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.initialized {
		return errcode.New(errcode.ErrIsInitialized, "init", "", nil)
	}

	if argv0 == "" {
		return errcode.New(errcode.ErrArgv0IsNull, "init", "", nil)
	}

	base, err := l.platform.BaseDir()
	if err != nil {
		base = ""
	}

	l.argv0 = argv0
	l.baseDir = base
	l.initialized = true

	return nil
}

// IsInit reports whether Init has succeeded and Deinit has not since run.
func (l *Library) IsInit() bool {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	return l.initialized
}

// Deinit tears the library down: refuses if any write-opened file
// remains, then closes read handles, releases the search path, drops
// registered archivers, and frees error state.
func (l *Library) Deinit() error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if !l.initialized {
		return errcode.New(errcode.ErrNotInitialized, "deinit", "", nil)
	}

	if len(l.writeHandles) > 0 {
		return errcode.New(errcode.ErrFilesStillOpen, "deinit", "", nil)
	}

	for fh := range l.readHandles {
		_ = fh.closeLocked()
	}
	l.readHandles = make(map[*FileHandle]struct{})

	for h := l.searchHead; h != nil; {
		next := h.next
		_ = h.Archiver.CloseArchive(h.Opaque)
		h = next
	}
	l.searchHead = nil

	if l.writeDir != nil {
		_ = l.writeDir.Archiver.CloseArchive(l.writeDir.Opaque)
		l.writeDir = nil
	}

	l.registry = archiver.NewRegistry()

	l.errMu.Lock()
	l.lastErr = make(map[int64]errcode.ErrorCode)
	l.errMu.Unlock()

	l.initialized = false

	return nil
}

// SetAllocator installs a custom Allocator. Must be called before Init;
// returns ErrIsInitialized otherwise.
func (l *Library) SetAllocator(a Allocator) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.initialized {
		return errcode.New(errcode.ErrIsInitialized, "setAllocator", "", nil)
	}

	if a == nil {
		a = defaultAllocator{}
	}
	l.allocator = a

	return nil
}

// GetAllocator returns the currently installed Allocator.
func (l *Library) GetAllocator() Allocator {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	return l.allocator
}

// Registry exposes the archiver registry for RegisterArchiver et al.
func (l *Library) Registry() *archiver.Registry {
	return l.registry
}

// Platform exposes the platform adapter (used by the directory archiver
// and dirs.go's base/user/pref directory queries).
func (l *Library) Platform() platform.Adapter {
	return l.platform
}

// PermitSymbolicLinks toggles symlink-following for resolution. Defaults
// to false (the secure default: symlinks forbidden).
func (l *Library) PermitSymbolicLinks(allow bool) {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	l.allowSymlinks = allow
}

// SymbolicLinksPermitted reports the current PermitSymbolicLinks setting.
func (l *Library) SymbolicLinksPermitted() bool {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	return l.allowSymlinks
}

// --- Last-error state ---
//
// physfs-go's idiomatic surface uses explicit Go error returns
// everywhere; SetErrorCode/GetLastErrorCode exist only for ABI-parity
// with callers porting code that polls a last-error accessor instead of
// checking a return value, and are keyed by goroutine identity via
// internal/goid. SetErrorCode takes only errMu, never stateMu.

// SetErrorCode records code as the current goroutine's last error.
func (l *Library) SetErrorCode(code errcode.ErrorCode) {
	id := goid.Get()

	l.errMu.Lock()
	l.lastErr[id] = code
	l.errMu.Unlock()
}

// GetLastErrorCode returns and clears the current goroutine's last error.
func (l *Library) GetLastErrorCode() errcode.ErrorCode {
	id := goid.Get()

	l.errMu.Lock()
	defer l.errMu.Unlock()

	code, ok := l.lastErr[id]
	if !ok {
		return errcode.ErrOK
	}
	delete(l.lastErr, id)

	return code
}

// recordErr sets the goroutine-local last-error slot from err's Code (if
// err is an *errcode.Error) and returns err unchanged, so call sites can
// write `return l.recordErr(errcode.New(...))`.
func (l *Library) recordErr(err *errcode.Error) *errcode.Error {
	if err != nil {
		l.SetErrorCode(err.Code)
	}

	return err
}
