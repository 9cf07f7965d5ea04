package view

import (
	"context"
	"net/http"
	"strings"

	"github.com/conduit-lang/jsonapi-view/internal/store"
	"github.com/conduit-lang/jsonapi-view/internal/web/response"
	"github.com/conduit-lang/jsonapi-view/internal/web/router"
)

// GraphLoader loads the blog snapshot a request renders from
type GraphLoader interface {
	Load(ctx context.Context) (*store.Graph, error)
}

// blogResource binds a resource name to its lookups on a loaded graph
type blogResource struct {
	name string
	list func(g *store.Graph) any
	find func(g *store.Graph, id int64) (any, error)
}

var blogResources = []blogResource{
	{
		name: "Author",
		list: func(g *store.Graph) any { return g.Authors },
		find: func(g *store.Graph, id int64) (any, error) { return g.Author(id) },
	},
	{
		name: "Post",
		list: func(g *store.Graph) any { return g.Posts },
		find: func(g *store.Graph, id int64) (any, error) { return g.Post(id) },
	},
	{
		name: "Comment",
		list: func(g *store.Graph) any { return g.Comments },
		find: func(g *store.Graph, id int64) (any, error) { return g.Comment(id) },
	},
}

// RegisterBlog registers the list and show routes of every blog resource
func RegisterBlog(r *router.Router, h *Handler, loader GraphLoader) error {
	for _, res := range blogResources {
		def := router.NewResourceDefinition(res.name)
		if err := r.RegisterResource(def, resourceHandlers(h, loader, res, def.IDParamName)); err != nil {
			return err
		}
	}
	return nil
}

// resourceHandlers builds the list and show handlers of one blog resource
func resourceHandlers(h *Handler, loader GraphLoader, res blogResource, idParam string) router.ResourceHandlers {
	return router.ResourceHandlers{
		List: h.Render(func(r *http.Request) (any, error) {
			g, err := loader.Load(r.Context())
			if err != nil {
				return nil, err
			}
			return res.list(g), nil
		}),
		Show: h.Render(func(r *http.Request) (any, error) {
			id, err := router.PathParamInt64(r, idParam)
			if err != nil {
				return nil, response.NewHTTPError(http.StatusBadRequest, err.Error()).WithCode("invalid_id")
			}
			g, err := loader.Load(r.Context())
			if err != nil {
				return nil, err
			}
			return res.find(g, id)
		}),
	}
}

// FindBlogResource loads one blog resource by name ("Post", "posts", ...) for
// callers outside HTTP. A nil id loads the whole collection.
func FindBlogResource(ctx context.Context, loader GraphLoader, name string, id *int64) (any, error) {
	for _, res := range blogResources {
		if !matchesResource(res.name, name) {
			continue
		}
		g, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		if id == nil {
			return res.list(g), nil
		}
		return res.find(g, *id)
	}
	return nil, response.NewHTTPError(http.StatusNotFound, "unknown resource "+name)
}

func matchesResource(resource, name string) bool {
	plural := strings.TrimPrefix(router.NewResourceDefinition(resource).BasePath, "/")
	return strings.EqualFold(name, resource) || name == plural
}
