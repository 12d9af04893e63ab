package vfs

import (
	"errors"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/errcode"
)

// Enumerate walks dir's entries across every mount that covers it, either
// as a real directory inside it or as (an ancestor of) the mount's own
// mount point, merging results and deduplicating by basename: a name
// present in more than one mount is reported once, from whichever mount's
// copy is encountered first. The write directory is not part of the search
// path and is not consulted unless separately mounted. Stops early if cb
// returns EnumStop; if cb returns EnumError, Enumerate stops and reports
// ErrAppCallback rather than silently swallowing it.
func (l *Library) Enumerate(dir string, cb func(name string) archiver.EnumResult) error {
	sanitized, err := SanitizePath(dir)
	if err != nil {
		return l.recordErr(err.(*errcode.Error)) //nolint:errorlint,forcetypeassert
	}

	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if !l.initialized {
		return l.recordErr(errcode.New(errcode.ErrNotInitialized, "enumerate", dir, nil))
	}

	seen := make(map[string]bool)
	stopped := false
	appCallbackErr := false

	report := func(name string) archiver.EnumResult {
		if seen[name] {
			return archiver.EnumOK
		}
		seen[name] = true

		switch cb(name) {
		case archiver.EnumStop:
			stopped = true

			return archiver.EnumStop
		case archiver.EnumError:
			appCallbackErr = true

			return archiver.EnumError
		default:
			return archiver.EnumOK
		}
	}

	for h := l.searchHead; h != nil && !stopped && !appCallbackErr; h = h.next {
		rel, segment, relation := mountEnumerateRelation(h.MountPoint, sanitized)

		switch relation {
		case relAncestorSegment:
			report(segment)
		case relInside:
			archivePath := WithRoot(h.Root, rel)

			enErr := h.Archiver.Enumerate(h.Opaque, archivePath, func(_, name string) archiver.EnumResult {
				return report(name)
			}, archivePath)
			if enErr != nil && errors.Is(enErr, archiver.ErrCallbackAborted) {
				appCallbackErr = true
			}
		case relNone:
			continue
		}
	}

	if appCallbackErr {
		return l.recordErr(errcode.New(errcode.ErrAppCallback, "enumerate", dir, nil))
	}

	return nil
}

// EnumerateFiles is the simple-callback convenience wrapper: it collects
// every basename Enumerate reports into a slice, the allocation-heavy
// list-returning form kept for callers that want it instead of the
// streaming callback.
func (l *Library) EnumerateFiles(dir string) ([]string, error) {
	var names []string

	err := l.Enumerate(dir, func(name string) archiver.EnumResult {
		names = append(names, name)

		return archiver.EnumOK
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}
