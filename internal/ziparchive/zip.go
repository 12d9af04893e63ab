// Package ziparchive implements the ZIP archiver backend: Zip32/Zip64
// central-directory parsing, lazy local-file-header resolution, DEFLATE
// decompression, traditional PKWARE decryption, and symlink resolution.
package ziparchive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/diag"
	"github.com/go-physfs/physfs/internal/dirtree"
	"github.com/go-physfs/physfs/internal/iosource"
)

// symlinkCacheTTL bounds how long a resolved symlink chain is trusted
// before resolveSymlink walks it again. ZIP entries never change once an
// archive is mounted, so this is purely about not re-walking a chain on
// every OpenRead of a frequently-opened symlink.
const symlinkCacheTTL = 30 * time.Second

const (
	sigLocalFile    = 0x04034b50
	sigCentralDir   = 0x02014b50
	sigEOCD         = 0x06054b50
	sigZip64EOCD    = 0x06064b50
	sigZip64Locator = 0x07064b50
	sigDataDescr    = 0x08074b50

	eocdFixedSize      = 22
	zip64EOCDFixedSize = 56
	zip64LocatorSize   = 20

	methodStore   = 0
	methodDeflate = 8

	flagEncrypted     = 0x1
	flagDataDescriptor = 0x8
	flagUTF8          = 0x800

	extraZip64   = 0x0001
	extraUnixUTF = 0x7075
	extraUnixIA  = 0x7855 // Info-ZIP Unix, new-style (uid/gid); unused for symlinks here
)

// entry is one ZIP central-directory record, plus the fields resolved
// lazily from its local file header the first time it's opened.
type entry struct {
	dirtree.Entry

	method       uint16
	flags        uint16
	crc32        uint32
	compSize     int64
	uncompSize   int64
	localOffset  int64
	modTime      int64
	dosModTime   uint16 // raw DOS time field, for the PKWARE header's alternative check
	externalAttr uint32
	isSymlink    bool

	mu         sync.Mutex
	dataStart  int64 // resolved lazily: offset of file data, past the local header
	resolved   bool
	linkTarget string
	resolving  symlinkState // cycle guard for resolveSymlink
}

// DirtreeEntry satisfies dirtree's embedder contract.
func (e *entry) DirtreeEntry() *dirtree.Entry { return &e.Entry }

type symlinkState int

const (
	symlinkUnresolved symlinkState = iota
	symlinkResolving
	symlinkResolved
)

// Archive is the opaque per-mount state OpenArchive returns.
type Archive struct {
	mu           sync.Mutex
	src          iosource.Source
	tree         *dirtree.Tree
	password     string
	hasEncrypted bool
	name         string

	symlinkCache *ttlcache.Cache[string, *entry]
}

// Errors surfaced as the archiver.Claim=ClaimBroken cause, or wrapped by
// Stat/OpenRead.
var (
	ErrNoEOCD        = errors.New("ziparchive: end of central directory record not found")
	ErrBadCentral    = errors.New("ziparchive: malformed central directory entry")
	ErrSymlinkLoop   = errors.New("ziparchive: symbolic link cycle detected")
	ErrBadPassword   = errors.New("ziparchive: incorrect password or corrupt data")
	ErrUnsupported   = errors.New("ziparchive: unsupported compression method")
	ErrEntryNotFound = errors.New("ziparchive: entry not found")
)

// New constructs the ZIP Archiver. Bundled separately from OpenArchive so
// a caller (physfs.RegisterArchiver, or tests) can hold a typed reference.
func New() archiver.Archiver { return &zipArchiver{} }

type zipArchiver struct{}

func (zipArchiver) Extension() string      { return "zip" }
func (zipArchiver) Description() string    { return "PKWARE ZIP archive" }
func (zipArchiver) SupportsSymlinks() bool { return true }

func (zipArchiver) OpenArchive(src iosource.Source, name string, forWriting bool) (any, archiver.Claim, error) {
	if forWriting {
		return nil, archiver.ClaimNone, ErrUnsupported
	}

	a := &Archive{
		src:          src,
		name:         name,
		symlinkCache: ttlcache.New[string, *entry](ttlcache.WithTTL[string, *entry](symlinkCacheTTL)),
	}

	if err := a.parse(); err != nil {
		if errors.Is(err, ErrNoEOCD) {
			return nil, archiver.ClaimNone, nil
		}

		return nil, archiver.ClaimBroken, err
	}

	diag.Metrics.OpenArchives.Add(1)
	diag.Metrics.TotalOpened.Add(1)

	return a, archiver.ClaimOK, nil
}

// WithPassword configures opaque (an *Archive) in place to decrypt
// traditionally-encrypted entries with password. This is the structured
// counterpart to the "$password" source-name suffix convention: callers
// that want explicit control (rather than embedding the password in the
// mounted name) type-assert the opaque archive state to *Archive.
func WithPassword(opaque any, password string) {
	a, ok := opaque.(*Archive)
	if !ok {
		return
	}

	a.mu.Lock()
	a.password = password
	a.mu.Unlock()
}

func readUint16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }
func readUint32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
func readUint64(b []byte, off int) uint64 { return binary.LittleEndian.Uint64(b[off:]) }

func (a *Archive) readAt(off int64, n int) ([]byte, error) {
	if err := a.src.Seek(off); err != nil {
		return nil, fmt.Errorf("ziparchive: seek %d: %w", off, err)
	}

	buf := make([]byte, n)

	total := 0
	for total < n {
		m, err := a.src.Read(buf[total:])
		total += m
		if err != nil {
			return buf[:total], fmt.Errorf("ziparchive: read at %d: %w", off, err)
		}
		if m == 0 {
			break
		}
	}

	return buf[:total], nil
}
