package server

import (
	"bytes"
	"container/list"
	"net/http"
	"sync"

	"github.com/willibrandon/nugetcompat/observability"
)

// CacheHeader reports HIT or MISS on cacheable API responses.
const CacheHeader = "X-Cache"

// cachedResponse is a successful API response body. Engine answers never
// change for a running server, so entries carry no expiry.
type cachedResponse struct {
	contentType string
	body        []byte
}

// responseCache is an LRU of response bodies bounded by entry count and
// total body bytes.
type responseCache struct {
	// maxEntries caps the number of cached responses
	maxEntries int

	// maxBytes caps the summed body size; zero means unbounded
	maxBytes int64

	mu        sync.Mutex
	entries   map[string]*list.Element
	lru       *list.List
	totalSize int64
}

type lruEntry struct {
	key  string
	resp *cachedResponse
}

// newResponseCache creates an empty cache with the given limits.
func newResponseCache(maxEntries int, maxBytes int64) *responseCache {
	return &responseCache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
	}
}

// get returns the entry for key and marks it most recently used.
func (c *responseCache) get(key string) (*cachedResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*lruEntry).resp, true
}

// set stores resp under key, replacing any previous entry.
func (c *responseCache) set(key string, resp *cachedResponse) {
	size := int64(len(resp.body))

	// A body larger than the whole cache would evict everything
	if c.maxBytes > 0 && size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*lruEntry)
		c.totalSize += size - int64(len(ent.resp.body))
		ent.resp = resp
		c.lru.MoveToFront(elem)
	} else {
		c.entries[key] = c.lru.PushFront(&lruEntry{key: key, resp: resp})
		c.totalSize += size
	}

	c.evict()
}

// evict drops least recently used entries until within limits (must hold lock).
func (c *responseCache) evict() {
	for c.lru.Len() > c.maxEntries || (c.maxBytes > 0 && c.totalSize > c.maxBytes) {
		elem := c.lru.Back()
		if elem == nil {
			return
		}
		ent := elem.Value.(*lruEntry)
		delete(c.entries, ent.key)
		c.lru.Remove(elem)
		c.totalSize -= int64(len(ent.resp.body))
	}
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// captureWriter tees the response so a 200 can be stored.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}

// middleware serves repeated GETs from the cache, keyed by path and query.
func (c *responseCache) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		// Serve from cache
		key := r.URL.RequestURI()
		if resp, ok := c.get(key); ok {
			observability.ResponseCacheTotal.WithLabelValues("hit").Inc()
			w.Header().Set("Content-Type", resp.contentType)
			w.Header().Set(CacheHeader, "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(resp.body)
			return
		}

		observability.ResponseCacheTotal.WithLabelValues("miss").Inc()
		w.Header().Set(CacheHeader, "MISS")
		cw := &captureWriter{ResponseWriter: w}
		next.ServeHTTP(cw, r)

		// Errors are never cached
		if cw.status == http.StatusOK {
			c.set(key, &cachedResponse{
				contentType: w.Header().Get("Content-Type"),
				body:        bytes.Clone(cw.body.Bytes()),
			})
		}
	})
}
