package iosource

import (
	"fmt"
	"io"
)

// Handle is the minimal interface a caller-supplied object must satisfy to
// back mount_io/mount_handle: a seekable reader, optionally a writer, and
// optionally an io.Closer and a Duplicate()-style cloner. This lets
// application code hand physfs-go anything from an *os.File it already
// has open to a custom io.ReadWriteSeeker.
type Handle interface {
	io.Reader
	io.Seeker
}

// wrapped adapts an application-supplied Handle into a Source.
type wrapped struct {
	h      Handle
	length int64
	dup    func() (Handle, bool)
}

// NewWrapped adapts h into a Source. length must be known up front (a
// Source's Length has no "unknown" sentinel, unlike Stat.filesize); dup,
// if non-nil, is used to satisfy Duplicate().
func NewWrapped(h Handle, length int64, dup func() (Handle, bool)) Source {
	return &wrapped{h: h, length: length, dup: dup}
}

func (w *wrapped) Read(p []byte) (int, error) {
	return w.h.Read(p) //nolint:wrapcheck
}

func (w *wrapped) Write(p []byte) (int, error) {
	wr, ok := w.h.(io.Writer)
	if !ok {
		return 0, fmt.Errorf("iosource: %w", errMemoryReadOnly)
	}

	return wr.Write(p) //nolint:wrapcheck
}

func (w *wrapped) Seek(offset int64) error {
	_, err := w.h.Seek(offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("iosource: seek: %w", err)
	}

	return nil
}

func (w *wrapped) Tell() (int64, error) {
	off, err := w.h.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("iosource: tell: %w", err)
	}

	return off, nil
}

func (w *wrapped) Length() (int64, error) {
	return w.length, nil
}

func (w *wrapped) Duplicate() (Source, bool) {
	if w.dup == nil {
		return nil, false
	}

	h, ok := w.dup()
	if !ok {
		return nil, false
	}

	return &wrapped{h: h, length: w.length, dup: w.dup}, true
}

func (w *wrapped) Flush() error {
	if f, ok := w.h.(interface{ Sync() error }); ok {
		if err := f.Sync(); err != nil {
			return fmt.Errorf("iosource: flush: %w", err)
		}
	}

	return nil
}

func (w *wrapped) Destroy() error {
	if c, ok := w.h.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("iosource: close: %w", err)
		}
	}

	return nil
}
