package main

import (
	"context"
	"io"
	"log"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/go-physfs/physfs"
)

const fileBasePerm = 0o444 // RO

var (
	_ fs.Node         = (*fileNode)(nil)
	_ fs.HandleReader = (*fileNode)(nil)
)

// fileNode is a virtual file, read through a shared handleCache: the
// kernel may serve concurrent reads against the same node, and a single
// physfs.File is not safe for concurrent callers sharing one seek
// position, so every access to the cached handle is serialized.
type fileNode struct {
	Inode    uint64
	Path     string
	Size     int64
	Modified time.Time
	handles  *handleCache
}

func (f *fileNode) Attr(_ context.Context, a *fuse.Attr) error {
	a.Inode = f.Inode
	a.Mode = fileBasePerm
	a.Size = uint64(f.Size) //nolint:gosec

	a.Atime = f.Modified
	a.Ctime = f.Modified
	a.Mtime = f.Modified

	return nil
}

func (f *fileNode) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	err := f.handles.withFile(f.Path, func(h *physfs.File) error {
		if err := h.Seek(req.Offset); err != nil {
			return err
		}

		buf := make([]byte, req.Size)

		n, err := io.ReadFull(h, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF { //nolint:errorlint
			return err
		}

		resp.Data = buf[:n]

		return nil
	})
	if err != nil {
		log.Printf("read %q: %v", f.Path, err)

		return fuse.ToErrno(syscall.EIO)
	}

	return nil
}
