package vfs

import (
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
)

// mountRelative classifies sanitized (an already-sanitized caller path)
// against a single mount's MountPoint. within is false if the mount has
// nothing to say about this path. isMountSegment is true when sanitized
// names the mount point itself -- the mount point is a synthesized
// directory, not an entry the archiver's own tree knows about, so there is
// no archiver-relative path to Stat.
func mountRelative(mountPoint, sanitized string) (rel string, within, isMountSegment bool) {
	if mountPoint == "/" || mountPoint == "" {
		return sanitized, true, false
	}

	trimmed := strings.TrimSuffix(mountPoint, "/")

	switch {
	case sanitized == trimmed:
		return "", true, true
	case strings.HasPrefix(sanitized, trimmed+"/"):
		return sanitized[len(trimmed)+1:], true, false
	default:
		return "", false, false
	}
}

// mountDirStat is the synthesized archiver.Stat for a mount point segment:
// a read-only directory with no meaningful timestamps, the same convention
// the unpacked-archive and ISO 9660 backends use for entries their formats
// don't themselves timestamp.
func mountDirStat() archiver.Stat {
	return archiver.Stat{FileType: archiver.TypeDirectory, ReadOnly: true, ModTime: -1, CreateTime: -1, AccessTime: -1}
}

// statAt walks the search path in order, consulting each mount's
// MountPoint before ever calling into its archiver, and returns the first
// DirHandle that yields an entry for sanitized. The write directory is
// deliberately not consulted here -- it is not a member of the search path
// unless separately mounted.
func (l *Library) statAt(sanitized string) (*DirHandle, string, archiver.Stat, bool) {
	for h := l.searchHead; h != nil; h = h.next {
		rel, within, isMountSegment := mountRelative(h.MountPoint, sanitized)
		if !within {
			continue
		}

		if isMountSegment {
			return h, "", mountDirStat(), true
		}

		archivePath := WithRoot(h.Root, rel)

		st, err := h.Archiver.Stat(h.Opaque, archivePath)
		if err != nil {
			continue
		}

		return h, archivePath, st, true
	}

	return nil, "", archiver.Stat{}, false
}

func (l *Library) resolve(sanitized string) (*DirHandle, string, bool) {
	dh, archivePath, _, ok := l.statAt(sanitized)

	return dh, archivePath, ok
}

// enumRelation classifies a directory being enumerated against one mount's
// MountPoint.
type enumRelation int

const (
	relNone enumRelation = iota
	relInside
	relAncestorSegment
)

// mountEnumerateRelation classifies sanitizedDir against a single mount's
// MountPoint for Enumerate. relInside means sanitizedDir is at or below the
// mount point: rel is the archiver-relative directory to enumerate.
// relAncestorSegment means sanitizedDir is a strict ancestor of the mount
// point (including the root, sanitizedDir == ""): segment names the next
// path component toward the mount, to be reported as a single synthesized
// child directory entry -- the mount point itself is never reachable by
// enumerating any archiver, it only exists as a path prefix.
func mountEnumerateRelation(mountPoint, sanitizedDir string) (rel, segment string, relation enumRelation) {
	if mountPoint == "/" || mountPoint == "" {
		return sanitizedDir, "", relInside
	}

	trimmed := strings.TrimSuffix(mountPoint, "/")

	switch {
	case sanitizedDir == trimmed:
		return "", "", relInside
	case strings.HasPrefix(sanitizedDir, trimmed+"/"):
		return sanitizedDir[len(trimmed)+1:], "", relInside
	case sanitizedDir == "" || strings.HasPrefix(trimmed, sanitizedDir+"/"):
		rest := trimmed
		if sanitizedDir != "" {
			rest = trimmed[len(sanitizedDir)+1:]
		}
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			rest = rest[:idx]
		}

		return "", rest, relAncestorSegment
	default:
		return "", "", relNone
	}
}
