package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourceDefinition(t *testing.T) {
	tests := []struct {
		name     string
		basePath string
	}{
		{"Post", "/posts"},
		{"Author", "/authors"},
		{"BlogEntry", "/blog_entries"},
		{"Box", "/boxes"},
		{"Day", "/days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := NewResourceDefinition(tt.name)
			assert.Equal(t, tt.name, def.Name)
			assert.Equal(t, tt.basePath, def.BasePath)
			assert.Equal(t, "id", def.IDParamName)
		})
	}
}

func TestRegisterResource(t *testing.T) {
	r := NewRouter("/api")
	err := r.RegisterResource(NewResourceDefinition("Post"), ResourceHandlers{
		List: writeName("list"),
		Show: writeName("show"),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/42", nil))
	assert.Equal(t, "show:42", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	assert.Equal(t, "list:", rec.Body.String())

	show, ok := r.Lookup("Post.show")
	require.True(t, ok)
	assert.Equal(t, "/api/posts/{id}", show.Pattern)
	assert.Equal(t, "Post", show.Resource)
	assert.Equal(t, OpShow, show.Op)
}

func TestRegisterResource_MissingHandlers(t *testing.T) {
	r := NewRouter("")

	err := r.RegisterResource(NewResourceDefinition("Post"), ResourceHandlers{Show: writeName("show")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list")

	err = r.RegisterResource(NewResourceDefinition("Post"), ResourceHandlers{List: writeName("list")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "show")

	assert.Empty(t, r.Routes())
}
