// Package sevenz implements the 7-Zip archiver backend. Parsing and LZMA/
// LZMA2/BCJ decompression are delegated entirely to
// github.com/bodgit/sevenzip rather than a from-scratch decoder.
package sevenz

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bodgit/sevenzip"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/dirtree"
	"github.com/go-physfs/physfs/internal/iosource"
)

type entry struct {
	dirtree.Entry

	file *sevenzip.File
}

func (e *entry) DirtreeEntry() *dirtree.Entry { return &e.Entry }

// Archive is the opaque per-mount state.
type Archive struct {
	src iosource.Source
	r   *sevenzip.Reader
	tree *dirtree.Tree
	password string
}

type sevenZArchiver struct{}

// New builds the 7-Zip Archiver.
func New() archiver.Archiver { return sevenZArchiver{} }

func (sevenZArchiver) Extension() string      { return "7z" }
func (sevenZArchiver) Description() string    { return "7-Zip archive" }
func (sevenZArchiver) SupportsSymlinks() bool { return false }

// WithPassword records password on opaque (an *Archive). Entries are read
// through the reader OpenArchive built without a password, and the recorded
// password is not passed to it, so AES-256 encrypted entries are not
// decrypted.
func WithPassword(opaque any, password string) {
	if a, ok := opaque.(*Archive); ok {
		a.password = password
	}
}

func (sevenZArchiver) OpenArchive(src iosource.Source, _ string, forWriting bool) (any, archiver.Claim, error) {
	if forWriting {
		return nil, archiver.ClaimNone, fmt.Errorf("sevenz: read-only")
	}

	length, err := src.Length()
	if err != nil {
		return nil, archiver.ClaimNone, nil //nolint:nilerr
	}

	ra := &readerAtSource{src: src}

	r, err := sevenzip.NewReader(ra, length)
	if err != nil {
		return nil, archiver.ClaimNone, nil //nolint:nilerr
	}

	a := &Archive{src: src, r: r}

	a.tree = dirtree.New(func(name string, isdir bool) (*dirtree.Entry, any) {
		e := &entry{}
		e.Name = name
		e.IsDir = isdir

		return &e.Entry, e
	})

	for _, f := range r.File {
		name := strings.TrimSuffix(strings.ReplaceAll(f.Name, "\\", "/"), "/")

		owner, err := a.tree.Add(name, f.FileInfo().IsDir())
		if err != nil {
			return nil, archiver.ClaimBroken, fmt.Errorf("sevenz: add %q: %w", name, err)
		}

		if en, ok := owner.(*entry); ok {
			en.file = f
		}
	}

	return a, archiver.ClaimOK, nil
}

func (a *Archive) lookup(path string) (*entry, bool) {
	owner := a.tree.Find(strings.TrimPrefix(path, "/"))
	if owner == nil {
		return nil, false
	}

	e, ok := owner.(*entry)

	return e, ok
}

func (sevenZArchiver) Enumerate(opaque any, dir string, cb archiver.EnumCallback, origdir string) error {
	a := opaque.(*Archive) //nolint:forcetypeassert

	_, result := a.tree.Enumerate(strings.TrimPrefix(dir, "/"), func(base string, _ any) dirtree.EnumResult {
		switch cb(origdir, base) {
		case archiver.EnumStop:
			return dirtree.EnumStop
		case archiver.EnumError:
			return dirtree.EnumError
		default:
			return dirtree.EnumOK
		}
	})

	if result == dirtree.EnumError {
		return archiver.ErrCallbackAborted
	}

	return nil
}

func (sevenZArchiver) OpenRead(opaque any, path string) (iosource.Source, error) {
	a := opaque.(*Archive) //nolint:forcetypeassert

	e, ok := a.lookup(path)
	if !ok || e.IsDir || e.file == nil {
		return nil, fmt.Errorf("sevenz: %q not found", path)
	}

	rc, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("sevenz: open %q: %w", path, err)
	}

	return &entrySource{open: func() (io.ReadCloser, error) { return e.file.Open() }, rc: rc, size: int64(e.file.UncompressedSize)}, nil
}

func (sevenZArchiver) OpenWrite(any, string) (iosource.Source, error) {
	return nil, fmt.Errorf("sevenz: read-only")
}

func (sevenZArchiver) OpenAppend(any, string) (iosource.Source, error) {
	return nil, fmt.Errorf("sevenz: read-only")
}

func (sevenZArchiver) Remove(any, string) error { return fmt.Errorf("sevenz: read-only") }
func (sevenZArchiver) Mkdir(any, string) error  { return fmt.Errorf("sevenz: read-only") }

func (sevenZArchiver) Stat(opaque any, path string) (archiver.Stat, error) {
	a := opaque.(*Archive) //nolint:forcetypeassert

	e, ok := a.lookup(path)
	if !ok {
		return archiver.Stat{}, fmt.Errorf("sevenz: %q not found", path)
	}

	ft := archiver.TypeRegular
	if e.IsDir {
		ft = archiver.TypeDirectory
	}

	var size int64
	var modTime int64 = -1

	if e.file != nil {
		size = int64(e.file.UncompressedSize)
		modTime = e.file.Modified.Unix()
	}

	return archiver.Stat{Filesize: size, FileType: ft, ReadOnly: true, ModTime: modTime, CreateTime: modTime, AccessTime: modTime}, nil
}

func (sevenZArchiver) CloseArchive(opaque any) error {
	a := opaque.(*Archive) //nolint:forcetypeassert

	return a.src.Destroy()
}

// readerAtSource adapts iosource.Source (Read/Seek/Tell) to io.ReaderAt,
// which bodgit/sevenzip requires. ReadAt calls are serialized since the
// underlying Source is not itself safe for concurrent positioned reads.
type readerAtSource struct {
	mu  sync.Mutex
	src iosource.Source
}

func (r *readerAtSource) ReadAt(p []byte, off int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.src.Seek(off); err != nil {
		return 0, fmt.Errorf("sevenz: seek: %w", err)
	}

	total := 0
	for total < len(p) {
		n, err := r.src.Read(p[total:])
		total += n
		if err != nil {
			return total, err //nolint:wrapcheck
		}
		if n == 0 {
			break
		}
	}

	return total, nil
}

// entrySource wraps the io.ReadCloser bodgit/sevenzip.File.Open returns as
// an iosource.Source. Seeking backward reopens the entry and discards
// leading bytes, same as the ZIP backend's non-seekable-reader fallback.
type entrySource struct {
	open func() (io.ReadCloser, error)
	rc   io.ReadCloser
	pos  int64
	size int64
}

func (e *entrySource) Read(p []byte) (int, error) {
	n, err := e.rc.Read(p)
	e.pos += int64(n)

	return n, err //nolint:wrapcheck
}

func (e *entrySource) Write([]byte) (int, error) { return 0, fmt.Errorf("sevenz: read-only") }

func (e *entrySource) Seek(offset int64) error {
	if offset == e.pos {
		return nil
	}

	if offset > e.pos {
		if _, err := io.CopyN(io.Discard, e.rc, offset-e.pos); err != nil {
			return fmt.Errorf("sevenz: seek forward: %w", err)
		}
		e.pos = offset

		return nil
	}

	_ = e.rc.Close()

	rc, err := e.open()
	if err != nil {
		return fmt.Errorf("sevenz: reopen for seek: %w", err)
	}

	e.rc = rc
	e.pos = 0

	if offset > 0 {
		if _, err := io.CopyN(io.Discard, e.rc, offset); err != nil {
			return fmt.Errorf("sevenz: seek forward: %w", err)
		}
		e.pos = offset
	}

	return nil
}

func (e *entrySource) Tell() (int64, error) { return e.pos, nil }

func (e *entrySource) Length() (int64, error) { return e.size, nil }

func (e *entrySource) Duplicate() (iosource.Source, bool) {
	rc, err := e.open()
	if err != nil {
		return nil, false
	}

	return &entrySource{open: e.open, rc: rc, size: e.size}, true
}

func (e *entrySource) Flush() error { return nil }

func (e *entrySource) Destroy() error { return e.rc.Close() } //nolint:wrapcheck
