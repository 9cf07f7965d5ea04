package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
)

const documentKeyPrefix = "doc:"

// DocumentKey derives the cache key of a rendered document from the resource
// path and the shaping inputs. Equivalent inclusion lists ("a.b,a" and
// "a,a.b") produce the same key because the scope is normalized first.
func DocumentKey(path string, scope jsonapi.IncludeScope, fieldsets map[string][]string) string {
	parts := []string{path, "include=" + strings.Join(scope.Paths(), ",")}

	types := make([]string, 0, len(fieldsets))
	for t := range fieldsets {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		fields := append([]string(nil), fieldsets[t]...)
		sort.Strings(fields)
		parts = append(parts, "fields["+t+"]="+strings.Join(fields, ","))
	}

	// Hash for a bounded key length
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return documentKeyPrefix + hex.EncodeToString(hash[:16])
}
