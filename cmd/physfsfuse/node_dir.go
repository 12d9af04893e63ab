package main

import (
	"context"
	"os"
	"path"
	"sort"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/go-physfs/physfs"
)

const dirBasePerm = 0o555 // RO

var (
	_ fs.Node                = (*dirNode)(nil)
	_ fs.HandleReadDirAller  = (*dirNode)(nil)
	_ fs.NodeStringLookuper  = (*dirNode)(nil)
)

// dirNode is a virtual directory: one merged view across every mount that
// covers Path, resolved through physfs.Enumerate the same way any other
// caller of the library sees it.
type dirNode struct {
	Inode   uint64
	Path    string
	handles *handleCache
}

func (d *dirNode) Attr(_ context.Context, a *fuse.Attr) error {
	a.Inode = d.Inode
	a.Mode = os.ModeDir | dirBasePerm

	return nil
}

func (d *dirNode) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	names, err := physfs.EnumerateFiles(d.Path)
	if err != nil {
		return nil, fuse.ToErrno(syscall.ENOENT)
	}
	sort.Strings(names)

	ents := make([]fuse.Dirent, 0, len(names))
	for _, name := range names {
		full := path.Join(d.Path, name)

		typ := fuse.DT_File
		if physfs.IsDirectory(full) {
			typ = fuse.DT_Dir
		}

		ents = append(ents, fuse.Dirent{
			Inode: fs.GenerateDynamicInode(d.Inode, name),
			Name:  name,
			Type:  typ,
		})
	}

	return ents, nil
}

func (d *dirNode) Lookup(_ context.Context, name string) (fs.Node, error) {
	full := path.Join(d.Path, name)

	if !physfs.Exists(full) {
		return nil, fuse.ToErrno(syscall.ENOENT)
	}

	inode := fs.GenerateDynamicInode(d.Inode, name)

	if physfs.IsDirectory(full) {
		return &dirNode{Inode: inode, Path: full, handles: d.handles}, nil
	}

	st, err := physfs.StatFile(full)
	if err != nil {
		return nil, fuse.ToErrno(syscall.EIO)
	}

	return &fileNode{
		Inode: inode, Path: full, Size: st.Filesize, Modified: modTime(st), handles: d.handles,
	}, nil
}

func modTime(st physfs.Stat) time.Time {
	if st.ModTime <= 0 {
		return time.Time{}
	}

	return time.Unix(st.ModTime, 0)
}
