package vfs

import (
	"errors"
	"sync"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/errcode"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/ziparchive"
)

// FileHandle is an open file within the virtual filesystem: a thin,
// optionally-buffered wrapper around the iosource.Source an archiver
// returned from OpenRead/OpenWrite/OpenAppend.
type FileHandle struct {
	mu sync.Mutex

	lib        *Library
	dir        *DirHandle // the write directory's handle for write handles
	src        iosource.Source
	forWriting bool
	path       string
	closed     bool

	// Read-side buffer. bufOff is the file offset of buf[0]; buf[0:bufLen]
	// holds data already fetched from src; bufPos is the next unread byte
	// within that window. pos is always the handle's logical position.
	buf    []byte
	bufOff int64
	bufLen int
	bufPos int
	pos    int64

	// Write-side buffer: bytes accumulate here until Flush or until a
	// Write wouldn't fit.
	wbuf    []byte
	wbufLen int
}

func newFileHandle(lib *Library, dir *DirHandle, src iosource.Source, path string, forWriting bool) *FileHandle {
	return &FileHandle{lib: lib, dir: dir, src: src, path: path, forWriting: forWriting}
}

// openForRead opens path (already sanitized, already relative to dir's
// root) for reading against dir's archiver.
func (l *Library) openForRead(dir *DirHandle, path string) (*FileHandle, error) {
	src, err := dir.Archiver.OpenRead(dir.Opaque, path)
	if err != nil {
		return nil, errcode.New(classifyOpenReadErr(err), "openRead", path, err)
	}

	fh := newFileHandle(l, dir, src, path, false)

	l.stateMu.Lock()
	l.readHandles[fh] = struct{}{}
	l.stateMu.Unlock()

	return fh, nil
}

// classifyOpenReadErr maps an archiver-specific OpenRead failure to its
// errcode.ErrorCode, so callers can tell a bad password from a symlink
// cycle from a genuinely missing entry rather than seeing ErrNotFound for
// everything.
func classifyOpenReadErr(err error) errcode.ErrorCode {
	switch {
	case errors.Is(err, ziparchive.ErrBadPassword):
		return errcode.ErrBadPassword
	case errors.Is(err, ziparchive.ErrSymlinkLoop):
		return errcode.ErrSymlinkLoop
	case errors.Is(err, ziparchive.ErrUnsupported):
		return errcode.ErrUnsupported
	case errors.Is(err, ziparchive.ErrNoEOCD), errors.Is(err, ziparchive.ErrBadCentral):
		return errcode.ErrCorrupt
	case errors.Is(err, ziparchive.ErrEntryNotFound):
		return errcode.ErrNotFound
	default:
		return errcode.ErrNotFound
	}
}

func (l *Library) openForWrite(path string, appendMode bool) (*FileHandle, error) {
	l.stateMu.Lock()
	wd := l.writeDir
	l.stateMu.Unlock()

	if wd == nil {
		return nil, errcode.New(errcode.ErrNoWriteDir, "openWrite", path, nil)
	}

	var (
		src iosource.Source
		err error
	)

	if appendMode {
		src, err = wd.Archiver.OpenAppend(wd.Opaque, path)
	} else {
		src, err = wd.Archiver.OpenWrite(wd.Opaque, path)
	}
	if err != nil {
		return nil, errcode.New(errcode.ErrIO, "openWrite", path, err)
	}

	fh := newFileHandle(l, wd, src, path, true)

	l.stateMu.Lock()
	l.writeHandles[fh] = struct{}{}
	l.stateMu.Unlock()

	return fh, nil
}

// Close flushes any pending write buffer, removes fh from its Library's
// handle sets, and destroys the underlying source.
func (fh *FileHandle) Close() error {
	fh.lib.stateMu.Lock()
	defer fh.lib.stateMu.Unlock()

	return fh.closeLocked()
}

// closeLocked assumes the caller already holds fh.lib.stateMu.
func (fh *FileHandle) closeLocked() error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	if fh.closed {
		return nil
	}

	var flushErr error
	if fh.forWriting {
		flushErr = fh.flushLocked()
	}

	destroyErr := fh.src.Destroy()
	fh.closed = true

	if fh.forWriting {
		delete(fh.lib.writeHandles, fh)
	} else {
		delete(fh.lib.readHandles, fh)
	}

	if flushErr != nil {
		return flushErr
	}

	return destroyErr
}

// Read satisfies io.Reader, routed through the read buffer (if any) set by
// SetBuffer.
func (fh *FileHandle) Read(p []byte) (int, error) {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	if fh.closed {
		return 0, errcode.New(errcode.ErrInvalidArgument, "read", fh.path, nil)
	}
	if fh.forWriting {
		return 0, errcode.New(errcode.ErrOpenForWriting, "read", fh.path, nil)
	}

	if len(fh.buf) == 0 {
		n, err := fh.src.Read(p)
		fh.pos += int64(n)

		return n, err
	}

	total := 0
	for total < len(p) {
		if fh.bufPos >= fh.bufLen {
			if err := fh.fillBuffer(); err != nil {
				if total > 0 {
					return total, nil
				}

				return 0, err
			}
			if fh.bufLen == 0 {
				break // EOF
			}
		}

		n := copy(p[total:], fh.buf[fh.bufPos:fh.bufLen])
		fh.bufPos += n
		total += n
		fh.pos += int64(n)
	}

	return total, nil
}

func (fh *FileHandle) fillBuffer() error {
	fh.bufOff = fh.pos
	fh.bufPos = 0

	n, err := readFull(fh.src, fh.buf)
	fh.bufLen = n

	if err != nil && n == 0 {
		return err
	}

	return nil
}

func readFull(src iosource.Source, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := src.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}

	return total, nil
}

// Write satisfies io.Writer, routed through the write buffer (if any).
func (fh *FileHandle) Write(p []byte) (int, error) {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	if fh.closed {
		return 0, errcode.New(errcode.ErrInvalidArgument, "write", fh.path, nil)
	}
	if !fh.forWriting {
		return 0, errcode.New(errcode.ErrOpenForReading, "write", fh.path, nil)
	}

	if len(fh.wbuf) == 0 {
		n, err := fh.src.Write(p)
		fh.pos += int64(n)

		return n, err
	}

	total := 0
	for total < len(p) {
		room := len(fh.wbuf) - fh.wbufLen
		if room == 0 {
			if err := fh.flushLocked(); err != nil {
				return total, err
			}
			room = len(fh.wbuf)
		}

		n := copy(fh.wbuf[fh.wbufLen:], p[total:])
		fh.wbufLen += n
		total += n
		fh.pos += int64(n)
	}

	return total, nil
}

// Flush forces any buffered writes out to the underlying source.
func (fh *FileHandle) Flush() error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	return fh.flushLocked()
}

func (fh *FileHandle) flushLocked() error {
	if fh.wbufLen == 0 {
		return fh.src.Flush()
	}

	n, err := fh.src.Write(fh.wbuf[:fh.wbufLen])
	fh.wbufLen -= n
	if fh.wbufLen > 0 {
		copy(fh.wbuf, fh.wbuf[n:n+fh.wbufLen])
	}

	if err != nil {
		return errcode.New(errcode.ErrIO, "flush", fh.path, err)
	}

	return fh.src.Flush()
}

// Seek moves the handle to an absolute offset. A read handle whose target
// lies inside the current buffer window avoids an underlying seek
// entirely.
func (fh *FileHandle) Seek(offset int64) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	if fh.closed {
		return errcode.New(errcode.ErrInvalidArgument, "seek", fh.path, nil)
	}

	if !fh.forWriting && len(fh.buf) > 0 && offset >= fh.bufOff && offset <= fh.bufOff+int64(fh.bufLen) {
		fh.bufPos = int(offset - fh.bufOff)
		fh.pos = offset

		return nil
	}

	if fh.forWriting && fh.wbufLen > 0 {
		if err := fh.flushLocked(); err != nil {
			return err
		}
	}

	if err := fh.src.Seek(offset); err != nil {
		return errcode.New(errcode.ErrIO, "seek", fh.path, err)
	}

	fh.pos = offset
	fh.bufLen = 0
	fh.bufPos = 0

	return nil
}

// Tell returns the handle's current logical position.
func (fh *FileHandle) Tell() (int64, error) {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	return fh.pos, nil
}

// Length returns the file's total size; meaningless, and thus an error,
// for a write/append handle.
func (fh *FileHandle) Length() (int64, error) {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	if fh.forWriting {
		return -1, errcode.New(errcode.ErrUnsupported, "length", fh.path, nil)
	}

	n, err := fh.src.Length()
	if err != nil {
		return -1, errcode.New(errcode.ErrIO, "length", fh.path, err)
	}

	return n, nil
}

// Eof reports whether the handle's position is at (or past) end of file.
func (fh *FileHandle) Eof() bool {
	length, err := fh.Length()
	if err != nil {
		return false
	}

	fh.mu.Lock()
	defer fh.mu.Unlock()

	return fh.pos >= length
}

// SetBuffer installs (or, for size 0, removes) a read or write buffer of
// size bytes. Switching buffer size flushes any pending writes and
// discards any buffered-but-unconsumed reads first.
func (fh *FileHandle) SetBuffer(size int) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	if fh.forWriting {
		if err := fh.flushLocked(); err != nil {
			return err
		}
		if size == 0 {
			fh.wbuf = nil
		} else {
			fh.wbuf = fh.lib.allocator.Alloc(size)
		}
		fh.wbufLen = 0

		return nil
	}

	fh.bufLen = 0
	fh.bufPos = 0

	if size == 0 {
		fh.buf = nil
	} else {
		fh.buf = fh.lib.allocator.Alloc(size)
	}

	return nil
}

// Stat returns the archiver's metadata for the file this handle is open
// against.
func (fh *FileHandle) Stat() (archiver.Stat, error) {
	fh.mu.Lock()
	dir, path := fh.dir, fh.path
	fh.mu.Unlock()

	st, err := dir.Archiver.Stat(dir.Opaque, path)
	if err != nil {
		return archiver.Stat{}, errcode.New(errcode.ErrIO, "stat", path, err)
	}

	return st, nil
}
