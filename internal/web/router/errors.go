package router

import (
	"fmt"
	"net/http"

	"github.com/conduit-lang/jsonapi-view/internal/web/response"
)

// NotFoundHandler returns a handler for unrouted paths
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.NewHTTPError(http.StatusNotFound, "the requested resource was not found").
			WithDetails(map[string]interface{}{"path": r.URL.Path}).
			Render(w)
	}
}

// MethodNotAllowedHandler returns a handler for routed paths hit with an unsupported method
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", http.MethodGet)
		response.NewHTTPError(http.StatusMethodNotAllowed,
			fmt.Sprintf("method %s is not allowed for this resource", r.Method)).
			WithDetails(map[string]interface{}{"path": r.URL.Path, "method": r.Method}).
			Render(w)
	}
}
