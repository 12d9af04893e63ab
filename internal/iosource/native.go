package iosource

import (
	"fmt"
	"io"
	"os"
)

// native wraps an *os.File as a Source. It is the backing store for the
// directory archiver and for any mount of a plain file on the host
// filesystem (e.g. the archive file itself, before an archiver opens it).
type native struct {
	f    *os.File
	path string // kept for Duplicate(); native-notation path
}

// OpenNativeRead opens path for reading and wraps it as a Source.
func OpenNativeRead(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iosource: open %q: %w", path, err)
	}

	return &native{f: f, path: path}, nil
}

// OpenNativeWrite opens path for writing, creating it if needed. It
// truncates path unless appendMode is set, in which case writes append.
func OpenNativeWrite(path string, appendMode bool) (Source, error) {
	flags := os.O_RDWR | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644) //nolint:mnd
	if err != nil {
		return nil, fmt.Errorf("iosource: open %q: %w", path, err)
	}

	if appendMode {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()

			return nil, fmt.Errorf("iosource: seek end %q: %w", path, err)
		}
	}

	return &native{f: f, path: path}, nil
}

func (n *native) Read(p []byte) (int, error) {
	return n.f.Read(p) //nolint:wrapcheck
}

func (n *native) Write(p []byte) (int, error) {
	return n.f.Write(p) //nolint:wrapcheck
}

func (n *native) Seek(offset int64) error {
	_, err := n.f.Seek(offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("iosource: seek: %w", err)
	}

	return nil
}

func (n *native) Tell() (int64, error) {
	off, err := n.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("iosource: tell: %w", err)
	}

	return off, nil
}

func (n *native) Length() (int64, error) {
	info, err := n.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("iosource: stat: %w", err)
	}

	return info.Size(), nil
}

func (n *native) Duplicate() (Source, bool) {
	dup, err := os.Open(n.path)
	if err != nil {
		return nil, false
	}

	if pos, err := n.f.Seek(0, io.SeekCurrent); err == nil {
		_, _ = dup.Seek(pos, io.SeekStart)
	}

	return &native{f: dup, path: n.path}, true
}

func (n *native) Flush() error {
	if err := n.f.Sync(); err != nil {
		return fmt.Errorf("iosource: flush: %w", err)
	}

	return nil
}

func (n *native) Destroy() error {
	if err := n.f.Close(); err != nil {
		return fmt.Errorf("iosource: close: %w", err)
	}

	return nil
}
