package secretstore

import (
	"context"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
)

type cachedSecret struct {
	secret  string
	modTime time.Time
	size    int64
}

// CachedStore keeps the last token read from a FileStore for up to ttl.
// The file is still stat'ed on every Load and re-read when its modification
// time or size changes, so a rotated token is picked up on the next request.
type CachedStore struct {
	file  *FileStore
	cache *cache.Cache
}

// NewCachedStore wraps file with a cache whose entries expire after ttl.
func NewCachedStore(file *FileStore, ttl time.Duration) *CachedStore {
	return &CachedStore{
		file:  file,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Load returns the cached token if the file is unchanged, otherwise reloads it.
func (c *CachedStore) Load(ctx context.Context) (string, error) {
	info, err := os.Stat(c.file.Path())
	if err != nil {
		c.Invalidate()
		return "", &ConfigurationError{Path: c.file.Path(), Err: err}
	}

	if v, found := c.cache.Get(c.file.Path()); found {
		entry := v.(cachedSecret)
		if entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			return entry.secret, nil
		}
	}

	secret, err := c.file.Load(ctx)
	if err != nil {
		c.Invalidate()
		return "", err
	}
	c.cache.SetDefault(c.file.Path(), cachedSecret{
		secret:  secret,
		modTime: info.ModTime(),
		size:    info.Size(),
	})
	return secret, nil
}

// Invalidate drops the cached token; the next Load reads the file.
func (c *CachedStore) Invalidate() {
	c.cache.Delete(c.file.Path())
}
