package view

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
	"github.com/conduit-lang/jsonapi-view/internal/orm/introspect"
	"github.com/conduit-lang/jsonapi-view/internal/orm/schema"
	"github.com/conduit-lang/jsonapi-view/internal/serializer"
	"github.com/conduit-lang/jsonapi-view/internal/store"
	"github.com/conduit-lang/jsonapi-view/internal/web/cache"
	"github.com/conduit-lang/jsonapi-view/internal/web/router"
)

// countingLoader counts graph loads so cache hits can be observed
type countingLoader struct {
	store *store.Store
	loads atomic.Int32
	err   error
}

func (l *countingLoader) Load(ctx context.Context) (*store.Graph, error) {
	l.loads.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return l.store.Load(ctx)
}

func newLoader(t *testing.T) *countingLoader {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, "sqlite3://:memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Seed(ctx))
	return &countingLoader{store: s}
}

func newAssembler(t *testing.T, register bool) *jsonapi.Assembler {
	t.Helper()

	registry := schema.NewRegistry()
	if register {
		require.NoError(t, store.Register(registry))
	}
	return jsonapi.NewAssembler(
		introspect.New(registry),
		serializer.New(serializer.WithExclusion(registry.IsAssociation)),
	)
}

func newBlogRouter(t *testing.T, loader GraphLoader, opts ...Option) *router.Router {
	t.Helper()

	r := router.NewRouter("/api")
	require.NoError(t, RegisterBlog(r, NewHandler(newAssembler(t, true), opts...), loader))
	return r
}

type wireResource struct {
	Type          string                     `json:"type"`
	ID            json.Number                `json:"id"`
	Attributes    map[string]json.RawMessage `json:"attributes"`
	Relationships map[string]struct {
		Data json.RawMessage `json:"data"`
	} `json:"relationships"`
}

type wireDocument struct {
	Data     json.RawMessage `json:"data"`
	Included []wireResource  `json:"included"`
}

type wireErrors struct {
	Errors []struct {
		Status string `json:"status"`
		Code   string `json:"code"`
	} `json:"errors"`
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeSingle(t *testing.T, rec *httptest.ResponseRecorder) (wireResource, []wireResource) {
	t.Helper()
	var doc wireDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	var data wireResource
	require.NoError(t, json.Unmarshal(doc.Data, &data))
	return data, doc.Included
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) wireErrors {
	t.Helper()
	var doc wireErrors
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Errors, 1)
	return doc
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestHandler_ShowWithIncludes(t *testing.T) {
	r := newBlogRouter(t, newLoader(t))

	rec := get(t, r, "/api/posts/1?included=author,comments")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.api+json", rec.Header().Get("Content-Type"))

	data, included := decodeSingle(t, rec)
	assert.Equal(t, "post", data.Type)
	assert.Equal(t, "1", data.ID.String())
	assert.ElementsMatch(t, []string{"title", "body", "published_at"}, keys(data.Attributes))
	assert.JSONEq(t, `"Notes on the Engine"`, string(data.Attributes["title"]))
	assert.JSONEq(t, `{"type":"author","id":1}`, string(data.Relationships["author"].Data))
	assert.JSONEq(t, `[{"type":"comment","id":1},{"type":"comment","id":2}]`,
		string(data.Relationships["comments"].Data))

	require.Len(t, included, 3)
	assert.Equal(t, "author", included[0].Type)
	assert.Equal(t, "comment", included[1].Type)
	assert.Equal(t, "1", included[1].ID.String())
	assert.Equal(t, "2", included[2].ID.String())
	assert.Empty(t, included[0].Relationships, "included resources only carry requested nested relationships")
}

func TestHandler_ShowWithoutIncludes(t *testing.T) {
	r := newBlogRouter(t, newLoader(t))

	rec := get(t, r, "/api/authors/2")
	require.Equal(t, http.StatusOK, rec.Code)

	data, included := decodeSingle(t, rec)
	assert.Equal(t, "author", data.Type)
	assert.JSONEq(t, `[{"type":"post","id":2}]`, string(data.Relationships["posts"].Data))
	assert.Empty(t, included)
	assert.Contains(t, rec.Body.String(), `"included":[]`)
}

func TestHandler_EmptyToOneIsNull(t *testing.T) {
	r := newBlogRouter(t, newLoader(t))

	rec := get(t, r, "/api/posts/3?included=author")
	require.Equal(t, http.StatusOK, rec.Code)

	data, included := decodeSingle(t, rec)
	assert.Equal(t, "null", string(data.Relationships["author"].Data))
	assert.JSONEq(t, `[]`, string(data.Relationships["comments"].Data))
	assert.JSONEq(t, `null`, string(data.Attributes["published_at"]))
	assert.Empty(t, included)
}

func TestHandler_CyclicIncludeStopsAtRequestedDepth(t *testing.T) {
	r := newBlogRouter(t, newLoader(t))

	rec := get(t, r, "/api/authors/1?included=posts.author")
	require.Equal(t, http.StatusOK, rec.Code)

	_, included := decodeSingle(t, rec)
	require.Len(t, included, 2)
	assert.Equal(t, "author", included[0].Type)
	assert.Empty(t, included[0].Relationships)
	assert.Equal(t, "post", included[1].Type)
	assert.Contains(t, included[1].Relationships, "author")
	assert.NotContains(t, included[1].Relationships, "comments")
}

func TestHandler_List(t *testing.T) {
	r := newBlogRouter(t, newLoader(t))

	rec := get(t, r, "/api/comments?included=post")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Data     []wireResource `json:"data"`
		Included []wireResource `json:"included"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Data, 3)
	for _, c := range doc.Data {
		assert.Equal(t, "comment", c.Type)
	}
	// One included post per comment, no deduplication by default
	assert.Len(t, doc.Included, 3)
}

func TestHandler_SparseFieldsets(t *testing.T) {
	r := newBlogRouter(t, newLoader(t))

	rec := get(t, r, "/api/posts/1?included=author&fields[post]=title&fields[author]=name")
	require.Equal(t, http.StatusOK, rec.Code)

	data, included := decodeSingle(t, rec)
	assert.Equal(t, []string{"title"}, keys(data.Attributes))
	assert.Contains(t, data.Relationships, "author")
	require.Len(t, included, 1)
	assert.Equal(t, []string{"name"}, keys(included[0].Attributes))
}

func TestHandler_CustomIncludeParam(t *testing.T) {
	r := newBlogRouter(t, newLoader(t), WithIncludeParam("include"))

	rec := get(t, r, "/api/posts/1?include=author")
	_, included := decodeSingle(t, rec)
	assert.Len(t, included, 1)

	rec = get(t, r, "/api/posts/1?included=author")
	_, included = decodeSingle(t, rec)
	assert.Empty(t, included)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"invalid id", "/api/posts/abc", http.StatusBadRequest, "invalid_id"},
		{"unknown id", "/api/posts/99", http.StatusNotFound, "not_found"},
		{"unknown route", "/api/widgets", http.StatusNotFound, "not_found"},
	}

	r := newBlogRouter(t, newLoader(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, r, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			doc := decodeErrors(t, rec)
			assert.Equal(t, tt.code, doc.Errors[0].Code)
		})
	}
}

func TestHandler_LoadFailure(t *testing.T) {
	loader := newLoader(t)
	loader.err = errors.New("connection refused")
	r := newBlogRouter(t, loader)

	rec := get(t, r, "/api/authors")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeErrors(t, rec).Errors[0].Code)
}

func TestHandler_BuildFailure(t *testing.T) {
	loader := newLoader(t)
	r := router.NewRouter("")
	require.NoError(t, RegisterBlog(r, NewHandler(newAssembler(t, false)), loader))

	rec := get(t, r, "/posts/1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "metadata_unavailable", decodeErrors(t, rec).Errors[0].Code)
}

func TestHandler_DocumentCache(t *testing.T) {
	memory := cache.NewMemoryCache()
	t.Cleanup(func() { memory.Close() })

	loader := newLoader(t)
	r := newBlogRouter(t, loader, WithDocumentCache(cache.NewDocumentCache(memory, 0, nil)))

	first := get(t, r, "/api/posts/1?included=author")
	second := get(t, r, "/api/posts/1?included=author")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), loader.loads.Load())

	get(t, r, "/api/posts/1?included=comments")
	assert.Equal(t, int32(2), loader.loads.Load(), "different scope renders again")

	notFound := get(t, r, "/api/posts/99")
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, 2, memory.Len(), "errors are not cached")
}

func TestFindBlogResource(t *testing.T) {
	loader := newLoader(t)
	ctx := context.Background()

	all, err := FindBlogResource(ctx, loader, "posts", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	id := int64(2)
	one, err := FindBlogResource(ctx, loader, "Author", &id)
	require.NoError(t, err)
	assert.Equal(t, "Alan Turing", one.(*store.Author).Name)

	_, err = FindBlogResource(ctx, loader, "widgets", nil)
	assert.Error(t, err)
}
