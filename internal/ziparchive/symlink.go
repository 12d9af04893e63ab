package ziparchive

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/jellydator/ttlcache/v3"

	"github.com/go-physfs/physfs/internal/diag"
)

// resolveSymlink follows e (which must be a symlink) to its final
// non-symlink target. Cycles are detected with a per-call visited set: a
// chain that reaches an entry it already passed through loops back on
// itself. Each entry's marker is Resolving while its target is being read
// and Resolved once the target is recorded; meeting an entry still marked
// Resolving also ends the walk with ErrSymlinkLoop.
//
// The final target is cached by originating entry name (see symlinkCache),
// since a frequently-opened symlink would otherwise re-walk its whole chain
// on every open.
func (a *Archive) resolveSymlink(e *entry) (*entry, error) {
	if item := a.symlinkCache.Get(e.Name); item != nil {
		diag.Metrics.CacheHits.Add(1)

		return item.Value(), nil
	}
	diag.Metrics.CacheMisses.Add(1)

	visited := make(map[*entry]bool)

	cur := e
	for {
		cur.mu.Lock()
		if cur.resolving == symlinkResolving {
			cur.mu.Unlock()

			return nil, ErrSymlinkLoop
		}
		cur.resolving = symlinkResolving
		cur.mu.Unlock()

		visited[cur] = true

		target, err := a.readLinkTarget(cur)
		if err != nil {
			return nil, err
		}

		resolvedPath := path.Join(path.Dir(cur.Name), target)

		next, ok := a.lookupEntry(resolvedPath)
		if !ok {
			return nil, fmt.Errorf("ziparchive: symlink %q -> %q: %w", cur.Name, resolvedPath, ErrEntryNotFound)
		}

		cur.mu.Lock()
		cur.resolving = symlinkResolved
		cur.linkTarget = resolvedPath
		cur.mu.Unlock()

		if !next.isSymlink {
			a.symlinkCache.Set(e.Name, next, ttlcache.DefaultTTL)

			return next, nil
		}

		if visited[next] {
			return nil, ErrSymlinkLoop
		}

		cur = next
	}
}

func (a *Archive) lookupEntry(name string) (*entry, bool) {
	owner := a.tree.Find(strings.TrimPrefix(name, "/"))
	if owner == nil {
		return nil, false
	}

	e, ok := owner.(*entry)

	return e, ok
}

// readLinkTarget reads a symlink entry's file content, which per the ZIP
// symlink convention (Info-ZIP / Unix external attributes) holds the raw
// UTF-8 link target path rather than file data.
func (a *Archive) readLinkTarget(e *entry) (string, error) {
	if err := a.resolveDataStart(e); err != nil {
		return "", err
	}

	src, err := a.openRaw(e, a.password)
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Destroy() }()

	buf, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("ziparchive: read link target: %w", err)
	}

	return string(buf), nil
}
