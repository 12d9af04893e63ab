package vfs

import (
	"strings"

	"github.com/go-physfs/physfs/internal/errcode"
)

// SanitizePath is the security kernel: it converts a caller-supplied path
// into canonical, sandboxed form, or fails. Every archive-directed
// operation must run its path through this before handing it to an
// archiver -- it is the sole guarantee that a sanitized path cannot
// escape the mounted search path.
//
// Rules, applied in order:
//   - strip leading '/' characters
//   - reject if the whole remaining string is "." or ".."
//   - ':' and '\' are illegal anywhere
//   - on each '/', the component just finished must not be "." or ".."
//   - consecutive '/' collapse to one
//   - trailing '/' is trimmed
func SanitizePath(p string) (string, error) {
	p = strings.TrimLeft(p, "/")

	if p == "." || p == ".." {
		return "", errcode.New(errcode.ErrBadFilename, "sanitizePath", p, nil)
	}

	var b strings.Builder
	b.Grow(len(p))

	compStart := 0
	emitComponent := func(end int) error {
		comp := p[compStart:end]
		if comp == "." || comp == ".." {
			return errcode.New(errcode.ErrBadFilename, "sanitizePath", p, nil)
		}

		return nil
	}

	for i := 0; i < len(p); i++ {
		c := p[i]

		switch c {
		case ':', '\\':
			return "", errcode.New(errcode.ErrBadFilename, "sanitizePath", p, nil)
		case '/':
			if err := emitComponent(i); err != nil {
				return "", err
			}

			if i == compStart {
				// Consecutive slash: skip without emitting a separator.
				compStart = i + 1

				continue
			}

			if b.Len() > 0 {
				b.WriteByte('/')
			}
			b.WriteString(p[compStart:i])
			compStart = i + 1
		default:
			continue
		}
	}

	if compStart < len(p) {
		if err := emitComponent(len(p)); err != nil {
			return "", err
		}

		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(p[compStart:])
	}

	return b.String(), nil
}

// WithRoot prepends root (a sanitized subdir set by SetRoot) to an
// already-sanitized path, so the archiver only ever sees
// absolute-in-archive paths.
func WithRoot(root, sanitized string) string {
	if root == "" {
		return sanitized
	}
	if sanitized == "" {
		return root
	}

	return root + "/" + sanitized
}
