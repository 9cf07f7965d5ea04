// Package router wraps chi with route bookkeeping so the served resources can
// be listed and named.
package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Operation is the kind of read a route performs
type Operation int

const (
	// OpList renders every resource of a type (GET /{resources})
	OpList Operation = iota
	// OpShow renders a single resource (GET /{resources}/{id})
	OpShow
)

// String returns the string representation of Operation
func (o Operation) String() string {
	switch o {
	case OpList:
		return "list"
	case OpShow:
		return "show"
	default:
		return "unknown"
	}
}

// Route is a registered route
type Route struct {
	Method   string
	Pattern  string // /api/posts/{id}
	Name     string // Post.show
	Resource string
	Op       Operation
}

// Router registers routes below a common prefix
type Router struct {
	mux    chi.Router
	prefix string
	routes []*Route
}

// NewRouter creates a router mounting every route below prefix ("" for root).
// Unknown paths and methods answer with JSON:API error documents.
func NewRouter(prefix string) *Router {
	mux := chi.NewRouter()
	mux.NotFound(NotFoundHandler())
	mux.MethodNotAllowed(MethodNotAllowedHandler())

	return &Router{
		mux:    mux,
		prefix: strings.TrimSuffix(prefix, "/"),
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Use appends middleware. chi requires this before any route is registered.
func (r *Router) Use(middlewares ...func(http.Handler) http.Handler) {
	r.mux.Use(middlewares...)
}

// Get registers a GET route below the router prefix
func (r *Router) Get(pattern string, handler http.HandlerFunc) *Route {
	route := &Route{
		Method:  http.MethodGet,
		Pattern: r.prefix + pattern,
	}
	r.mux.Get(route.Pattern, handler)
	r.routes = append(r.routes, route)
	return route
}

// Mount attaches handler below pattern, outside the router prefix and
// without route bookkeeping
func (r *Router) Mount(pattern string, handler http.Handler) {
	r.mux.Mount(pattern, handler)
}

// Named sets a name for the route
func (route *Route) Named(name string) *Route {
	route.Name = name
	return route
}

// WithResource records which resource and operation the route serves
func (route *Route) WithResource(resource string, op Operation) *Route {
	route.Resource = resource
	route.Op = op
	return route
}

// Routes returns copies of the registered routes in registration order
func (r *Router) Routes() []Route {
	routes := make([]Route, len(r.routes))
	for i, route := range r.routes {
		routes[i] = *route
	}
	return routes
}

// Lookup returns the route registered under name
func (r *Router) Lookup(name string) (Route, bool) {
	for _, route := range r.routes {
		if route.Name == name {
			return *route, true
		}
	}
	return Route{}, false
}

// URL expands the named route's pattern with params
func (r *Router) URL(name string, params map[string]string) (string, error) {
	route, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("route not found: %s", name)
	}

	url := route.Pattern
	for key, value := range params {
		url = strings.ReplaceAll(url, "{"+key+"}", value)
	}

	if strings.Contains(url, "{") {
		return "", fmt.Errorf("missing parameter values for route: %s", name)
	}

	return url, nil
}

// RouteList returns a formatted table of all routes
func (r *Router) RouteList() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-8s %-40s %-20s\n", "METHOD", "PATTERN", "NAME"))
	sb.WriteString(strings.Repeat("-", 70) + "\n")

	for _, route := range r.routes {
		sb.WriteString(fmt.Sprintf("%-8s %-40s %-20s\n", route.Method, route.Pattern, route.Name))
	}

	return sb.String()
}
