package serializer

import (
	"fmt"
	"strings"

	utilstrings "github.com/conduit-lang/jsonapi-view/internal/util/strings"
)

// NamingFunc adapts a plain function to jsonapi.NamingStrategy
type NamingFunc func(string) string

// TranslateName implements jsonapi.NamingStrategy
func (f NamingFunc) TranslateName(property string) string {
	return f(property)
}

// Built-in naming strategies
var (
	// Identical keeps Go field names untouched
	Identical NamingFunc = func(s string) string { return s }
	// SnakeCase maps AuthorID to author_id
	SnakeCase NamingFunc = utilstrings.ToSnakeCase
	// CamelCase maps AuthorID to authorId
	CamelCase NamingFunc = func(s string) string {
		return utilstrings.ToLowerCamelCase(utilstrings.ToSnakeCase(s))
	}
)

// ParseNamingStrategy resolves a configured strategy name
func ParseNamingStrategy(name string) (NamingFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "identical", "":
		return Identical, nil
	case "snake_case", "snake":
		return SnakeCase, nil
	case "camel_case", "camel":
		return CamelCase, nil
	default:
		return nil, fmt.Errorf("unknown naming strategy: %s", name)
	}
}
