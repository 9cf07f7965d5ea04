package cache

import (
	"bytes"
	"net/http"
)

// ETagConfig holds configuration for the ETag middleware
type ETagConfig struct {
	// CacheControl is set on successful GET responses when non-empty
	CacheControl string
}

// ETag buffers successful GET responses, tags them with a content hash and
// answers matching If-None-Match requests with 304 Not Modified.
func ETag(config ETagConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			rec := newResponseRecorder()
			next.ServeHTTP(rec, r)

			for key, values := range rec.header {
				w.Header()[key] = values
			}

			if rec.statusCode != http.StatusOK {
				w.WriteHeader(rec.statusCode)
				w.Write(rec.body.Bytes())
				return
			}

			etag := GenerateETag(rec.body.Bytes())
			if config.CacheControl != "" {
				w.Header().Set("Cache-Control", config.CacheControl)
			}
			if CheckNotModified(w, r, etag) {
				return
			}

			w.Header().Set("ETag", etag)
			w.WriteHeader(rec.statusCode)
			w.Write(rec.body.Bytes())
		})
	}
}

// responseRecorder buffers a complete response
type responseRecorder struct {
	header      http.Header
	statusCode  int
	body        bytes.Buffer
	wroteHeader bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (r *responseRecorder) Header() http.Header {
	return r.header
}

// WriteHeader records the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.statusCode = statusCode
		r.wroteHeader = true
	}
}

// Write records the response body
func (r *responseRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.body.Write(b)
}
