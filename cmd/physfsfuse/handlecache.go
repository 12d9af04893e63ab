package main

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-physfs/physfs"
)

const handleCacheSize = 128

// handleCache keeps a bounded set of open physfs.File handles around by
// path, so a node backed by a frequently-read file (a game re-reading its
// own asset index, say) doesn't pay an OpenRead/resolve cost on every
// kernel Read callback. Capacity eviction closes the displaced handle.
type handleCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *physfs.File]
}

func newHandleCache() *handleCache {
	c := &handleCache{}

	cache, err := lru.NewWithEvict(handleCacheSize, func(_ string, f *physfs.File) {
		_ = f.Close()
	})
	if err != nil {
		panic(err) // only fails for a non-positive size, which handleCacheSize never is
	}
	c.cache = cache

	return c
}

// get returns a cached handle for path, opening and caching it on a miss;
// the caller must not Close it (the cache owns its lifetime). The cache lock
// is released before get returns, so the bare *physfs.File it hands back is
// not guarded against concurrent use; withFile is the serialized path.
func (c *handleCache) get(path string) (*physfs.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.cache.Get(path); ok {
		return f, nil
	}

	f, err := physfs.OpenRead(path)
	if err != nil {
		return nil, err
	}
	c.cache.Add(path, f)

	return f, nil
}

// withFile runs fn against the cached handle for path, holding the cache
// lock for the duration so a concurrent Read on the same path can't
// interleave Seek+Read pairs against it.
func (c *handleCache) withFile(path string, fn func(*physfs.File) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.cache.Get(path)
	if !ok {
		var err error
		f, err = physfs.OpenRead(path)
		if err != nil {
			return err
		}
		c.cache.Add(path, f)
	}

	return fn(f)
}

func (c *handleCache) purgeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Purge()
}
