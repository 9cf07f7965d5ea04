// Package jsonapi converts domain objects into JSON:API documents.
//
// The package knows nothing about how objects are stored or serialized. It
// consumes two collaborators:
//
//   - an Introspector, which answers identity and association questions
//     (which field is the identifier, which fields are to-one or to-many
//     associations, what the type is called)
//   - an AttributeProvider, which returns the already-serialized scalar
//     values of an object keyed by serialized name
//
// A client inclusion request such as "author.posts,comments" is parsed into
// an IncludeScope. The Assembler walks the primary data depth-first, emitting
// relationships as resource identifiers and appending full resource objects
// to the document's included set only for relationships named in the scope.
//
// Example:
//
//	assembler := jsonapi.NewAssembler(introspector, serializer)
//	doc, err := assembler.Assemble(authors, jsonapi.ParseIncludePaths([]string{"posts.comments"}))
//	if err != nil {
//	    return err
//	}
//	body, err := json.Marshal(doc)
package jsonapi
