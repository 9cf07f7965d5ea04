package router

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PathParam extracts a path parameter by name
func PathParam(req *http.Request, name string) string {
	return chi.URLParam(req, name)
}

// PathParamInt64 extracts a path parameter and converts it to int64
func PathParamInt64(req *http.Request, name string) (int64, error) {
	value := chi.URLParam(req, name)
	if value == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}

	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for parameter %s: %q", name, value)
	}

	return i, nil
}
