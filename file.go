package physfs

import (
	"github.com/go-physfs/physfs/internal/vfs"
)

// File is a handle to an open virtual-filesystem file. It satisfies
// io.Reader, io.Writer, and io.Closer; Seek/Tell/Length/Eof expose
// explicit-offset I/O rather than an io.Seeker (offsets are always
// absolute and 64-bit, with no whence argument to get wrong).
type File struct {
	fh *vfs.FileHandle
}

// OpenRead opens filename for reading, resolved across the search path
// (the write directory is not consulted unless it is also mounted).
func OpenRead(filename string) (*File, error) {
	fh, err := defaultLibrary().l.OpenRead(filename)
	if err != nil {
		return nil, err
	}

	return &File{fh: fh}, nil
}

func (lib *Library) OpenRead(filename string) (*File, error) {
	fh, err := lib.l.OpenRead(filename)
	if err != nil {
		return nil, err
	}

	return &File{fh: fh}, nil
}

// OpenWrite opens (creating or truncating) filename for writing in the
// current write directory.
func OpenWrite(filename string) (*File, error) {
	fh, err := defaultLibrary().l.OpenWrite(filename)
	if err != nil {
		return nil, err
	}

	return &File{fh: fh}, nil
}

func (lib *Library) OpenWrite(filename string) (*File, error) {
	fh, err := lib.l.OpenWrite(filename)
	if err != nil {
		return nil, err
	}

	return &File{fh: fh}, nil
}

// OpenAppend opens filename for append-only writing in the current write
// directory, creating it if it does not already exist.
func OpenAppend(filename string) (*File, error) {
	fh, err := defaultLibrary().l.OpenAppend(filename)
	if err != nil {
		return nil, err
	}

	return &File{fh: fh}, nil
}

func (lib *Library) OpenAppend(filename string) (*File, error) {
	fh, err := lib.l.OpenAppend(filename)
	if err != nil {
		return nil, err
	}

	return &File{fh: fh}, nil
}

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) { return f.fh.Read(p) }

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) { return f.fh.Write(p) }

// Close implements io.Closer.
func (f *File) Close() error { return f.fh.Close() }

// Flush forces any buffered writes out.
func (f *File) Flush() error { return f.fh.Flush() }

// Seek moves to an absolute byte offset.
func (f *File) Seek(offset int64) error { return f.fh.Seek(offset) }

// Tell returns the current byte offset.
func (f *File) Tell() (int64, error) { return f.fh.Tell() }

// Length returns the file's total size; an error for write/append handles.
func (f *File) Length() (int64, error) { return f.fh.Length() }

// Eof reports whether the handle is at (or past) end of file.
func (f *File) Eof() bool { return f.fh.Eof() }

// SetBuffer installs (size > 0) or removes (size == 0) a read or write
// buffer for this handle.
func (f *File) SetBuffer(size int) error { return f.fh.SetBuffer(size) }

// Stat returns metadata for the file this handle is open against.
func (f *File) Stat() (Stat, error) {
	st, err := f.fh.Stat()

	return Stat(st), err
}
