package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// HTTPCachePrefix namespaces cached response keys in Redis.
	HTTPCachePrefix = "eldrex:api-cache:"

	httpCacheDefaultTTL  = 15 * time.Second
	httpCacheBodyLimit   = 1 << 20
	httpCacheStateHeader = "x-eldrex-cache"
)

// HTTPCacheOptions tunes the shared response cache.
type HTTPCacheOptions struct {
	TTL       time.Duration
	Disable   bool
	SkipPaths []string // exact match, or prefix when ending in *
}

// cacheEntry is the stored form of a cached response. Body round-trips
// through encoding/json's base64 handling for []byte.
type cacheEntry struct {
	Status      int    `json:"status"`
	ContentType string `json:"type,omitempty"`
	Body        []byte `json:"body"`
}

// bodyRecorder tees the response body while it streams to the client.
// Bodies past the limit are delivered but not cached.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) <= httpCacheBodyLimit {
		w.buf.Write(p)
	} else {
		w.buf.Reset()
	}
	return w.ResponseWriter.Write(p)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// HTTPCache serves anonymous GET responses from Redis for a short TTL.
// Token-carrying requests always bypass the shared cache: their bodies
// hold viewer-specific fields (liked flags, owner data) that must never
// leak across sessions. Per-session surfaces (feed page, gate state)
// are excluded via SkipPaths.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = httpCacheDefaultTTL
	}

	return func(c *gin.Context) {
		if opts.Disable || rdb == nil || c.Request.Method != http.MethodGet ||
			HasAuthToken(c) || cacheExemptPath(c.Request.URL.Path, opts.SkipPaths) {
			c.Next()
			return
		}

		key := HTTPCachePrefix + c.Request.URL.RequestURI()
		if entry, ok := loadCacheEntry(c.Request.Context(), rdb, key); ok {
			c.Header(httpCacheStateHeader, "hit")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		c.Header(httpCacheStateHeader, "miss")
		if c.Writer.Status() != http.StatusOK || rec.buf.Len() == 0 {
			return
		}
		if cc := c.Writer.Header().Get("Cache-Control"); strings.Contains(cc, "no-store") ||
			strings.Contains(cc, "private") {
			return
		}

		raw, err := json.Marshal(cacheEntry{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		})
		if err != nil {
			return
		}
		rdb.Set(c.Request.Context(), key, raw, ttl)
	}
}

// PurgeHTTPCache drops every cached response. Returns the number of
// keys removed.
func PurgeHTTPCache(ctx context.Context, rdb *redis.Client) (int64, error) {
	if rdb == nil {
		return 0, nil
	}

	var cursor uint64
	var purged int64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, HTTPCachePrefix+"*", 200).Result()
		if err != nil {
			return purged, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return purged, err
			}
			purged += n
		}
		if cursor = next; cursor == 0 {
			return purged, nil
		}
	}
}

func loadCacheEntry(ctx context.Context, rdb *redis.Client, key string) (cacheEntry, bool) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return cacheEntry{}, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil || len(entry.Body) == 0 {
		return cacheEntry{}, false
	}
	if entry.Status == 0 {
		entry.Status = http.StatusOK
	}
	if entry.ContentType == "" {
		entry.ContentType = "application/json; charset=utf-8"
	}
	return entry, true
}

func cacheExemptPath(path string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(path, p[:len(p)-1]) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
