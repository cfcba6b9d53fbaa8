package enumpath

import (
	"github.com/jacoelho/enumpath/internal/cache"
)

// Cache memoizes normalized segments by raw path text.
type Cache interface {
	GetOrSet(key string, compute func() []string) []string
}

var defaultCache = cache.New[string, []string](0)

// NewCache returns a cache keeping at most maxEntries normalized paths,
// evicting the least recently used. Zero means unbounded.
func NewCache(maxEntries int) Cache {
	return cache.New[string, []string](maxEntries)
}

// ResetCache empties the process-wide normalization cache.
func ResetCache() {
	defaultCache.Reset()
}

// SetCacheSize bounds the process-wide normalization cache, evicting the
// least recently used entries beyond maxEntries. Zero means unbounded.
func SetCacheSize(maxEntries int) {
	defaultCache.SetMaxEntries(maxEntries)
}
