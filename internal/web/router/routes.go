package router

import (
	"fmt"
	"net/http"
	"strings"

	utilstrings "github.com/conduit-lang/jsonapi-view/internal/util/strings"
)

// ResourceDefinition describes the read routes of one resource type
type ResourceDefinition struct {
	Name        string // Resource name (e.g., "Post")
	BasePath    string // Base path below the router prefix (e.g., "/posts")
	IDParamName string // ID parameter name (default: "id")
}

// NewResourceDefinition creates a definition with the pluralized snake_case base path
func NewResourceDefinition(name string) *ResourceDefinition {
	return &ResourceDefinition{
		Name:        name,
		BasePath:    "/" + pluralize(utilstrings.ToSnakeCase(name)),
		IDParamName: "id",
	}
}

// ResourceHandlers holds the handlers of a resource's read operations
type ResourceHandlers struct {
	List http.HandlerFunc
	Show http.HandlerFunc
}

// RegisterResource registers GET {base} and GET {base}/{id}
func (r *Router) RegisterResource(def *ResourceDefinition, handlers ResourceHandlers) error {
	if handlers.List == nil {
		return fmt.Errorf("missing handler for operation: %s", OpList)
	}
	if handlers.Show == nil {
		return fmt.Errorf("missing handler for operation: %s", OpShow)
	}

	r.Get(def.BasePath, handlers.List).
		WithResource(def.Name, OpList).
		Named(def.Name + "." + OpList.String())

	r.Get(fmt.Sprintf("%s/{%s}", def.BasePath, def.IDParamName), handlers.Show).
		WithResource(def.Name, OpShow).
		Named(def.Name + "." + OpShow.String())

	return nil
}

// pluralize returns the plural form of a word (simple implementation)
func pluralize(word string) string {
	if word == "" {
		return word
	}

	switch {
	case strings.HasSuffix(word, "y") && len(word) > 1 && !isVowel(word[len(word)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") || strings.HasSuffix(word, "ch") ||
		strings.HasSuffix(word, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiouAEIOU", b) >= 0
}
