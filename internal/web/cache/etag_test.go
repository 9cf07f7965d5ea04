package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateETag(t *testing.T) {
	etag := GenerateETag([]byte("hello"))

	assert.Equal(t, etag, GenerateETag([]byte("hello")))
	assert.NotEqual(t, etag, GenerateETag([]byte("world")))
	assert.Len(t, etag, 34)
	assert.Equal(t, byte('"'), etag[0])
}

func TestParseIfNoneMatch(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{"empty", "", nil},
		{"wildcard", "*", []string{"*"}},
		{"single", `"abc"`, []string{`"abc"`}},
		{"multiple", `"abc", W/"def"`, []string{`"abc"`, `W/"def"`}},
		{"unquoted ignored", `abc, "def"`, []string{`"def"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIfNoneMatch(tt.header))
		})
	}
}

func TestMatchesETag(t *testing.T) {
	assert.True(t, MatchesETag(`"a"`, []string{`"a"`}))
	assert.True(t, MatchesETag(`"a"`, []string{`W/"a"`}))
	assert.True(t, MatchesETag(`"a"`, []string{"*"}))
	assert.False(t, MatchesETag(`"a"`, []string{`"b"`}))
	assert.False(t, MatchesETag(`"a"`, nil))
}

func TestCheckNotModified(t *testing.T) {
	etag := GenerateETag([]byte("body"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	assert.False(t, CheckNotModified(w, req, etag))

	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	assert.True(t, CheckNotModified(w, req, etag))
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Equal(t, etag, w.Header().Get("ETag"))

	req.Header.Set("If-None-Match", `"other"`)
	w = httptest.NewRecorder()
	assert.False(t, CheckNotModified(w, req, etag))
}
