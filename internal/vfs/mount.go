package vfs

import (
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/dirarchiver"
	"github.com/go-physfs/physfs/internal/errcode"
	"github.com/go-physfs/physfs/internal/iosource"
)

// DirHandle is one mounted source in the search path.
type DirHandle struct {
	Opaque     any
	SourceName string // native-notation, as originally passed to Mount
	MountPoint string // platform-independent, always has a trailing '/'
	Root       string // sanitized subdir set by SetRoot; "" if unset
	Archiver   archiver.Archiver
	src        iosource.Source // archive-level I/O source, kept for CloseArchive's Destroy
	next       *DirHandle
}

func normalizeMountPoint(mp string) (string, error) {
	if mp == "" {
		return "/", nil
	}

	sanitized, err := SanitizePath(mp)
	if err != nil {
		return "", err
	}

	if sanitized == "" {
		return "/", nil
	}

	return sanitized + "/", nil
}

// Mount opens src (or, if src is nil, opens sourceName natively via the
// platform adapter or plain file I/O) and adds it to the search path at
// mountPoint. If src is already mounted (exact string match on
// sourceName), Mount succeeds silently without reopening it.
func (l *Library) Mount(src iosource.Source, sourceName, mountPoint string, prepend bool) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if !l.initialized {
		return l.recordErr(errcode.New(errcode.ErrNotInitialized, "mount", sourceName, nil))
	}

	for h := l.searchHead; h != nil; h = h.next {
		if h.SourceName == sourceName {
			return nil // already mounted under this exact source name: silent success
		}
	}

	mp, err := normalizeMountPoint(mountPoint)
	if err != nil {
		return l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	opened := src
	isDir := false

	if opened == nil {
		isDir, err = l.platform.IsDirectory(sourceName)
		if err != nil {
			isDir = false
		}

		if isDir {
			opened = nil // directory archiver does not need an archive-level source
		} else {
			opened, err = iosource.OpenNativeRead(sourceName)
			if err != nil {
				return l.recordErr(errcode.New(errcode.ErrIO, "mount", sourceName, err))
			}
		}
	}

	var (
		a      archiver.Archiver
		opaque any
	)

	if isDir {
		a = dirarchiver.New(l.platform)

		opaque, _, err = a.OpenArchive(nil, sourceName, false)
		if err != nil {
			return l.recordErr(errcode.New(errcode.ErrIO, "mount", sourceName, err))
		}
	} else {
		a, opaque, err = l.detectArchiver(opened, sourceName)
		if err != nil {
			_ = opened.Destroy()

			return l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
		}
	}

	dh := &DirHandle{
		Opaque:     opaque,
		SourceName: sourceName,
		MountPoint: mp,
		Archiver:   a,
		src:        opened,
	}

	l.linkDirHandle(dh, prepend)

	return nil
}

// MountSource mounts an already-open iosource.Source directly (mount_io /
// mount_handle), skipping native-file auto-open.
func (l *Library) MountSource(src iosource.Source, sourceName, mountPoint string, prepend bool) error {
	return l.Mount(src, sourceName, mountPoint, prepend)
}

func (l *Library) linkDirHandle(dh *DirHandle, prepend bool) {
	if prepend || l.searchHead == nil {
		dh.next = l.searchHead
		l.searchHead = dh

		return
	}

	cur := l.searchHead
	for cur.next != nil {
		cur = cur.next
	}
	cur.next = dh
}

// detectArchiver tries archivers by extension match first, then by brute
// force over every registered archiver. A ClaimBroken result stops the
// search (the format was recognized but corrupt).
func (l *Library) detectArchiver(src iosource.Source, name string) (archiver.Archiver, any, error) {
	ext := extensionOf(name)

	tried := make(map[archiver.Archiver]bool)

	for _, a := range l.registry.ByExtension(ext) {
		opaque, claim, err := tryOpen(a, src, name)
		tried[a] = true

		switch claim {
		case archiver.ClaimOK:
			return a, opaque, nil
		case archiver.ClaimBroken:
			return nil, nil, errcode.New(errcode.ErrCorrupt, "mount", name, err)
		case archiver.ClaimNone:
			continue
		}
	}

	for _, a := range l.registry.All() {
		if tried[a] {
			continue
		}

		opaque, claim, err := tryOpen(a, src, name)

		switch claim {
		case archiver.ClaimOK:
			return a, opaque, nil
		case archiver.ClaimBroken:
			return nil, nil, errcode.New(errcode.ErrCorrupt, "mount", name, err)
		case archiver.ClaimNone:
			continue
		}
	}

	return nil, nil, errcode.New(errcode.ErrUnsupported, "mount", name, nil)
}

func tryOpen(a archiver.Archiver, src iosource.Source, name string) (any, archiver.Claim, error) {
	dup, ok := src.Duplicate()
	if !ok {
		dup = src
	}

	if err := dup.Seek(0); err != nil {
		return nil, archiver.ClaimNone, nil //nolint:nilerr
	}

	return a.OpenArchive(dup, name, false)
}

func extensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}

	return strings.ToLower(name[idx+1:])
}

// Unmount removes the DirHandle whose SourceName matches sourceName
// (case-sensitive). Fails with FilesStillOpen if any open read handle
// still references it.
func (l *Library) Unmount(sourceName string) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	var prev, target *DirHandle
	for h := l.searchHead; h != nil; h = h.next {
		if h.SourceName == sourceName {
			target = h

			break
		}
		prev = h
	}

	if target == nil {
		return l.recordErr(errcode.New(errcode.ErrNotMounted, "unmount", sourceName, nil))
	}

	for fh := range l.readHandles {
		if fh.dir == target {
			return l.recordErr(errcode.New(errcode.ErrFilesStillOpen, "unmount", sourceName, nil))
		}
	}

	if prev == nil {
		l.searchHead = target.next
	} else {
		prev.next = target.next
	}

	if err := target.Archiver.CloseArchive(target.Opaque); err != nil {
		return l.recordErr(errcode.New(errcode.ErrIO, "unmount", sourceName, err))
	}
	if target.src != nil {
		_ = target.src.Destroy()
	}

	return nil
}

// GetSearchPath returns the source names in the search path, in order.
func (l *Library) GetSearchPath() []string {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	var out []string
	for h := l.searchHead; h != nil; h = h.next {
		out = append(out, h.SourceName)
	}

	return out
}

// GetMountPoint returns the mount point of sourceName, or an error if it
// isn't mounted.
func (l *Library) GetMountPoint(sourceName string) (string, error) {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	for h := l.searchHead; h != nil; h = h.next {
		if h.SourceName == sourceName {
			return h.MountPoint, nil
		}
	}

	return "", l.recordErr(errcode.New(errcode.ErrNotMounted, "getMountPoint", sourceName, nil))
}

// SetRoot attaches root as the effective root subdirectory of an
// already-mounted archive.
func (l *Library) SetRoot(sourceName, subdir string) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	for h := l.searchHead; h != nil; h = h.next {
		if h.SourceName == sourceName {
			sanitized, err := SanitizePath(subdir)
			if err != nil {
				return l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
			}
			h.Root = sanitized

			return nil
		}
	}

	return l.recordErr(errcode.New(errcode.ErrNotMounted, "setRoot", sourceName, nil))
}
