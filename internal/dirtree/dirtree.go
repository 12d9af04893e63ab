// Package dirtree implements the hashed, in-memory directory tree shared by
// nearly all archivers: a tree of (name, isdir) entries keyed by a djb2-style
// hash of the full in-archive path, with automatic ancestor creation and
// MRU-ordered hash buckets.
package dirtree

import "strings"

// Entry is one node of a DirTree. Archivers embed Entry as the first field
// of their own richer entry type (see internal/ziparchive.zipEntry) so a
// *dirtree.Entry can be recovered from any archiver's node and vice versa
// via an unsafe-free type assertion on the owning struct.
type Entry struct {
	Name     string // full path within the archive, no leading slash
	IsDir    bool
	hashNext *Entry
	children []*Entry
	parent   *Entry
}

// Tree is a hash-bucketed tree of Entry values (or of types that embed
// Entry, via the Owner indirection below).
type Tree struct {
	root    *Entry
	buckets []*Entry
	owners  map[*Entry]any // Entry -> owning struct, for embedders
	newNode func(name string, isdir bool) (*Entry, any)
	count   int
}

const defaultBucketCount = 256

// hash computes the djb2-style hash used to bucket entries:
// hash = 5381; for byte in name: hash = ((hash << 5) + hash) ^ byte.
func hash(name string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(name); i++ {
		h = ((h << 5) + h) ^ uint32(name[i])
	}

	return h
}

// New builds an empty Tree. newNode, if non-nil, is called instead of
// allocating a bare *Entry whenever Add creates a brand-new node -- this is
// how archivers get their own entry type (which embeds Entry) back out of
// Add/Find instead of a bare *Entry. It must return a pointer whose first
// field is the *Entry (i.e. e == &owner's embedded Entry).
func New(newNode func(name string, isdir bool) (*Entry, any)) *Tree {
	t := &Tree{
		buckets: make([]*Entry, defaultBucketCount),
		owners:  make(map[*Entry]any),
		newNode: newNode,
	}

	root, owner := t.alloc("", true)
	t.root = root
	t.owners[root] = owner

	return t
}

func (t *Tree) alloc(name string, isdir bool) (*Entry, any) {
	if t.newNode != nil {
		return t.newNode(name, isdir)
	}

	e := &Entry{Name: name, IsDir: isdir}

	return e, e
}

func (t *Tree) bucketIndex(name string) int {
	return int(hash(name) % uint32(len(t.buckets)))
}

func (t *Tree) insertBucket(e *Entry) {
	idx := t.bucketIndex(e.Name)
	e.hashNext = t.buckets[idx]
	t.buckets[idx] = e
}

// moveToFront relinks e at the head of its bucket chain (MRU), matching
// Find's move-to-front-on-hit behavior.
func (t *Tree) moveToFront(e *Entry) {
	idx := t.bucketIndex(e.Name)
	if t.buckets[idx] == e {
		return
	}

	prev := t.buckets[idx]
	for prev != nil && prev.hashNext != e {
		prev = prev.hashNext
	}

	if prev == nil {
		return // not found in its own bucket: shouldn't happen
	}

	prev.hashNext = e.hashNext
	e.hashNext = t.buckets[idx]
	t.buckets[idx] = e
}

// Add inserts name (auto-creating any missing ancestor directories) and
// returns its owning node. If name already exists, the existing node is
// returned; if the existing node's IsDir disagrees with isdir, ErrConflict
// is returned alongside the existing node.
func (t *Tree) Add(name string, isdir bool) (any, error) {
	name = strings.Trim(name, "/")
	if name == "" {
		return t.owners[t.root], nil
	}

	if existing := t.find(name); existing != nil {
		if existing.IsDir != isdir {
			return t.owners[existing], ErrConflict
		}

		return t.owners[existing], nil
	}

	parentName, base := splitPath(name)

	parentOwner, err := t.Add(parentName, true)
	if err != nil && err != ErrConflict { //nolint:errorlint
		return nil, err
	}

	parentEntry := ownerEntry(parentOwner)

	e, owner := t.alloc(name, isdir)
	e.parent = parentEntry
	t.owners[e] = owner

	parentEntry.children = append(parentEntry.children, e)
	t.insertBucket(e)
	t.count++

	return owner, nil
}

// Find returns the owning node for path, or nil if absent. An empty path
// returns the root. On a hit, the entry is moved to the head of its bucket
// (MRU).
func (t *Tree) Find(path string) any {
	path = strings.Trim(path, "/")
	if path == "" {
		return t.owners[t.root]
	}

	e := t.find(path)
	if e == nil {
		return nil
	}

	return t.owners[e]
}

func (t *Tree) find(path string) *Entry {
	idx := t.bucketIndex(path)

	e := t.buckets[idx]
	for e != nil {
		if e.Name == path {
			t.moveToFront(e)

			return e
		}
		e = e.hashNext
	}

	return nil
}

// Walker is called once per child of the directory named by dir, in
// Enumerate. Returning EnumStop or EnumError aborts the walk early.
type Walker func(basename string, child any) EnumResult

// EnumResult controls whether Enumerate continues, stops, or aborts with
// an error after a Walker callback.
type EnumResult int

const (
	EnumOK EnumResult = iota
	EnumStop
	EnumError
)

// Enumerate finds the entry named dir and invokes cb once per child with
// its basename. Returns ok=false if dir does not name a directory. result
// is EnumOK if every child was visited, or the EnumStop/EnumError the
// callback aborted with -- the two remain distinguishable so a caller can
// tell a clean early-stop from a reported failure.
func (t *Tree) Enumerate(dir string, cb Walker) (ok bool, result EnumResult) {
	var e *Entry
	if strings.Trim(dir, "/") == "" {
		e = t.root
	} else {
		e = t.find(dir)
	}

	if e == nil || !e.IsDir {
		return false, EnumOK
	}

	for _, child := range e.children {
		base := basename(child.Name)

		switch r := cb(base, t.owners[child]); r {
		case EnumStop, EnumError:
			return true, r
		case EnumOK:
			continue
		}
	}

	return true, EnumOK
}

// Count returns the number of non-root entries added so far.
func (t *Tree) Count() int {
	return t.count
}

// Root returns the tree's root node.
func (t *Tree) Root() any {
	return t.owners[t.root]
}

func ownerEntry(owner any) *Entry {
	if e, ok := owner.(*Entry); ok {
		return e
	}
	if eo, ok := owner.(interface{ DirtreeEntry() *Entry }); ok {
		return eo.DirtreeEntry()
	}

	panic("dirtree: owner type does not expose *Entry (embed Entry and implement DirtreeEntry)")
}

func splitPath(name string) (parent, base string) {
	idx := strings.LastIndexByte(name, '/')
	if idx < 0 {
		return "", name
	}

	return name[:idx], name[idx+1:]
}

func basename(name string) string {
	idx := strings.LastIndexByte(name, '/')
	if idx < 0 {
		return name
	}

	return name[idx+1:]
}
