package response

import (
	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
)

// ApplySparseFieldsets trims the attributes of every resource in doc, primary
// and included, to the fields requested for its type.
//
// Types absent from fieldsets keep all attributes. Identifiers and
// relationships are never removed, and requesting a field a resource does not
// have is not an error.
//
// Example usage in a handler:
//
//	doc, err := assembler.Assemble(posts, scope)
//	if err != nil {
//	    response.RenderInternalError(w, err)
//	    return
//	}
//	response.ApplySparseFieldsets(doc, query.ParseFields(r))
//	response.RenderDocument(w, http.StatusOK, doc)
func ApplySparseFieldsets(doc jsonapi.Document, fieldsets map[string][]string) {
	if doc == nil || len(fieldsets) == 0 {
		return
	}

	for _, res := range doc.Resources() {
		filterResource(res, fieldsets)
	}
	for _, res := range doc.Included() {
		filterResource(res, fieldsets)
	}
}

func filterResource(res *jsonapi.ResourceObject, fieldsets map[string][]string) {
	fields, ok := fieldsets[res.Type]
	if !ok || res.Attributes == nil {
		return
	}

	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}

	res.Attributes.Retain(func(name string) bool {
		return allowed[name]
	})
}
