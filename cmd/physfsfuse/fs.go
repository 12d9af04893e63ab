package main

import (
	"bazil.org/fuse/fs"
)

var _ fs.FS = (*physfsFS)(nil)

// physfsFS is the FUSE filesystem backing the whole physfs-go search path:
// every mounted directory/archive merged into one tree, rather than a
// single archive exposed on its own.
type physfsFS struct {
	handles *handleCache
}

func newPhysfsFS() *physfsFS {
	return &physfsFS{handles: newHandleCache()}
}

func (fsys *physfsFS) Root() (fs.Node, error) {
	return &dirNode{Inode: 1, Path: "/", handles: fsys.handles}, nil
}
