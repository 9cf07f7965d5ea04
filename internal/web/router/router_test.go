package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeName(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name + ":" + PathParam(r, "id")))
	}
}

func TestRouter_GetWithPrefix(t *testing.T) {
	r := NewRouter("/api/")
	r.Get("/posts", writeName("list"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "list:", rec.Body.String())

	routes := r.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/api/posts", routes[0].Pattern)
	assert.Equal(t, http.MethodGet, routes[0].Method)
}

func TestRouter_Use(t *testing.T) {
	r := NewRouter("")
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Test", "applied")
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/ping", writeName("ping"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "applied", rec.Header().Get("X-Test"))
}

func TestRouter_NotFoundRendersJSONAPIError(t *testing.T) {
	r := NewRouter("")
	r.Get("/posts", writeName("list"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/vnd.api+json", rec.Header().Get("Content-Type"))

	var body struct {
		Errors []struct {
			Status string                 `json:"status"`
			Code   string                 `json:"code"`
			Meta   map[string]interface{} `json:"meta"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "404", body.Errors[0].Status)
	assert.Equal(t, "not_found", body.Errors[0].Code)
	assert.Equal(t, "/missing", body.Errors[0].Meta["path"])
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := NewRouter("")
	r.Get("/posts", writeName("list"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
	assert.Contains(t, rec.Body.String(), "method_not_allowed")
}

func TestRouter_URL(t *testing.T) {
	r := NewRouter("/api")
	r.Get("/posts/{id}", writeName("show")).Named("Post.show")

	url, err := r.URL("Post.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/posts/7", url)

	_, err = r.URL("Post.show", nil)
	assert.Error(t, err)

	_, err = r.URL("Nope.show", nil)
	assert.Error(t, err)
}

func TestRouter_RouteList(t *testing.T) {
	r := NewRouter("")
	r.Get("/posts", writeName("list")).Named("Post.list")

	list := r.RouteList()
	assert.Contains(t, list, "METHOD")
	assert.Contains(t, list, "/posts")
	assert.Contains(t, list, "Post.list")
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "list", OpList.String())
	assert.Equal(t, "show", OpShow.String())
	assert.Equal(t, "unknown", Operation(9).String())
}

func TestRouter_MountIgnoresPrefix(t *testing.T) {
	r := NewRouter("/api")
	r.Mount("/debug", writeName("debug"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "debug:", rec.Body.String())
	assert.Empty(t, r.Routes())
}
