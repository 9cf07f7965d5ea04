// Package query reads the JSON:API document shaping parameters from a request.
package query

import (
	"net/http"
	"regexp"
	"strings"
)

// DefaultIncludeParam is the query parameter holding the comma separated inclusion paths
const DefaultIncludeParam = "included"

// fieldsPattern matches query parameters like fields[typename]
var fieldsPattern = regexp.MustCompile(`^fields\[([^\]]+)\]$`)

// ParseInclude parses the named query parameter into a slice of inclusion paths.
// Example: ?included=author,comments.author returns ["author", "comments.author"]
// An empty param name falls back to DefaultIncludeParam.
// Returns an empty slice if the parameter is not present.
func ParseInclude(r *http.Request, param string) []string {
	if param == "" {
		param = DefaultIncludeParam
	}

	include := r.URL.Query().Get(param)
	if include == "" {
		return []string{}
	}

	return splitList(include)
}

// ParseFields parses the fields query parameters into a map of resource types to field names.
// Example: ?fields[authors]=name&fields[posts]=title,body
// Returns: {"authors": ["name"], "posts": ["title", "body"]}
// Returns an empty map if no fields parameters are present.
func ParseFields(r *http.Request) map[string][]string {
	result := make(map[string][]string)

	for key, values := range r.URL.Query() {
		matches := fieldsPattern.FindStringSubmatch(key)
		if len(matches) != 2 {
			continue
		}

		typeName := matches[1]
		if len(values) == 0 || values[0] == "" {
			result[typeName] = []string{}
			continue
		}

		result[typeName] = splitList(values[0])
	}

	return result
}

// splitList splits a comma separated value, dropping blank entries
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
