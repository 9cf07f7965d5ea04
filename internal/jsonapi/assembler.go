package jsonapi

import (
	"reflect"

	"go.uber.org/zap"
)

// Assembler turns primary data into a JSON:API document. It holds no
// per-request state and is safe for concurrent use.
type Assembler struct {
	builder *ResourceBuilder
	logger  *zap.Logger
	dedupe  bool
}

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithIncludedDeduplication drops included resources whose (type, id) pair
// already appears in the primary data or earlier in the included set.
// Disabled by default: included resources are kept in plain append order.
func WithIncludedDeduplication(enabled bool) Option {
	return func(a *Assembler) {
		a.dedupe = enabled
	}
}

// NewAssembler creates a document assembler over the given collaborators
func NewAssembler(introspector Introspector, attributes AttributeProvider, opts ...Option) *Assembler {
	a := &Assembler{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.builder = NewResourceBuilder(introspector, attributes, a.logger)
	return a
}

// Assemble builds a document for data. A slice or array (of any length)
// produces a *CollectionDocument, anything else a *ResourceDocument.
//
// The whole build fails on the first error; no partial document is returned.
func (a *Assembler) Assemble(data any, scope IncludeScope) (Document, error) {
	if scope == nil {
		scope = IncludeScope{}
	}

	var doc Document
	if elements, ok := collectionElements(data); ok {
		collection := NewCollectionDocument()
		for _, element := range elements {
			resource, err := a.builder.Build(collection, element, scope, nil)
			if err != nil {
				return nil, err
			}
			collection.AddData(resource)
		}
		doc = collection
	} else {
		single := NewResourceDocument()
		resource, err := a.builder.Build(single, data, scope, nil)
		if err != nil {
			return nil, err
		}
		single.SetData(resource)
		doc = single
	}

	if a.dedupe {
		deduplicateIncluded(doc)
	}

	a.logger.Debug("assembled document",
		zap.Bool("collection", doc.IsCollection()),
		zap.Int("primary", len(doc.Resources())),
		zap.Int("included", len(doc.Included())),
		zap.Strings("include", scope.Paths()),
	)

	return doc, nil
}

// collectionElements returns the elements of data when it is a slice or array
func collectionElements(data any) ([]any, bool) {
	if data == nil {
		return nil, false
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Slice {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		elements := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elements[i] = v.Index(i).Interface()
		}
		return elements, true
	default:
		return nil, false
	}
}

// deduplicateIncluded keeps the first occurrence of every (type, id) pair
// and drops included copies of primary resources
func deduplicateIncluded(doc Document) {
	seen := make(map[string]bool)
	for _, r := range doc.Resources() {
		seen[r.Identifier().Key()] = true
	}

	included := doc.Included()
	unique := make([]*ResourceObject, 0, len(included))
	for _, r := range included {
		key := r.Identifier().Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}
	doc.setIncluded(unique)
}
