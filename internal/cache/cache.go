package cache

import (
	"bytes"
	"net/http"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024
	// admin writes purge everything, expiry is a fallback
	defaultExpireSeconds = 60 * 60
)

// PublicCache keeps rendered public JSON responses keyed by request URI.
type PublicCache struct {
	cache         *freecache.Cache
	expireSeconds int
}

func NewPublicCache(sizeMB int) *PublicCache {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	return &PublicCache{
		cache:         freecache.NewCache(sizeMB * megabyte),
		expireSeconds: defaultExpireSeconds,
	}
}

func (c *PublicCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *PublicCache) Set(key string, val []byte) {
	if err := c.cache.Set([]byte(key), val, c.expireSeconds); err != nil {
		log.Errorf("public cache, set [%s]: %s", key, err)
	}
}

func (c *PublicCache) Purge() {
	c.cache.Clear()
	log.Debug("public cache purged")
}

func (c *PublicCache) EntryCount() int64 {
	return c.cache.EntryCount()
}

// CacheGET serves GET requests from the cache and stores successful JSON responses.
func (c *PublicCache) CacheGET() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if body, ok := c.Get(key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.statusCode == http.StatusOK && rec.Header().Get("Content-Type") == "application/json" {
				c.Set(key, rec.body.Bytes())
			}
		})
	}
}

// PurgeOnWrite drops every cached response after a successful non GET request.
func (c *PublicCache) PurgeOnWrite() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodOptions || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK, skipBody: true}
			next.ServeHTTP(rec, r)

			if rec.statusCode < 400 {
				c.Purge()
			}
		})
	}
}

type recordingWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	skipBody    bool
	body        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(statusCode int) {
	if !rw.wroteHeader {
		rw.statusCode = statusCode
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	if !rw.skipBody {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}
