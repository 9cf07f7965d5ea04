package jsonapi

import (
	"fmt"
	"strings"
)

// fakeObject is a metadata-free stand-in for a domain object
type fakeObject struct {
	typeName string
	props    map[string]any
	values   map[string]any
}

func newFake(typeName string, id any) *fakeObject {
	return &fakeObject{
		typeName: typeName,
		props:    map[string]any{"id": id},
		values:   map[string]any{"id": id},
	}
}

// attr sets both the property and its serialized value
func (o *fakeObject) attr(name string, value any) *fakeObject {
	o.props[name] = value
	o.values[name] = value
	return o
}

func (o *fakeObject) one(name string, target *fakeObject) *fakeObject {
	o.props[name] = target
	return o
}

func (o *fakeObject) many(name string, targets ...*fakeObject) *fakeObject {
	o.props[name] = targets
	return o
}

type namingFunc func(string) string

func (f namingFunc) TranslateName(property string) string { return f(property) }

var identityNaming = namingFunc(func(s string) string { return s })

// fakeIntrospector serves metadata registered per type name
type fakeIntrospector struct {
	types map[string]*TypeMetadata
}

func newFakeIntrospector() *fakeIntrospector {
	return &fakeIntrospector{types: make(map[string]*TypeMetadata)}
}

func (f *fakeIntrospector) register(typeName string, fields ...FieldMetadata) {
	f.types[typeName] = &TypeMetadata{TypeName: typeName, Fields: fields}
}

func (f *fakeIntrospector) Metadata(obj any) (*TypeMetadata, error) {
	o, ok := obj.(*fakeObject)
	if !ok || o == nil {
		return nil, &MetadataUnavailableError{Type: fmt.Sprintf("%T", obj)}
	}
	meta, ok := f.types[o.typeName]
	if !ok {
		return nil, &MetadataUnavailableError{Type: o.typeName}
	}
	return meta, nil
}

func (f *fakeIntrospector) Property(obj any, name string) (any, bool) {
	v, ok := obj.(*fakeObject).props[name]
	return v, ok
}

func (f *fakeIntrospector) ToOne(obj any, field FieldMetadata) (any, error) {
	target, _ := obj.(*fakeObject).props[field.Name].(*fakeObject)
	if target == nil {
		return nil, nil
	}
	return target, nil
}

func (f *fakeIntrospector) ToMany(obj any, field FieldMetadata) ([]any, error) {
	raw, ok := obj.(*fakeObject).props[field.Name]
	if !ok || raw == nil {
		return nil, nil
	}
	targets, ok := raw.([]*fakeObject)
	if !ok {
		return nil, fmt.Errorf("field %s is not a collection", field.Name)
	}
	out := make([]any, len(targets))
	for i, t := range targets {
		out[i] = t
	}
	return out, nil
}

// fakeProvider returns the fake object's serialized values
type fakeProvider struct {
	naming NamingStrategy
}

func (p *fakeProvider) Serialize(obj any) (*SerializedObject, error) {
	return &SerializedObject{Values: obj.(*fakeObject).values, Naming: p.naming}, nil
}

func idField() FieldMetadata {
	return FieldMetadata{Name: "id", Kind: FieldIdentifier}
}

func attrField(name string) FieldMetadata {
	return FieldMetadata{Name: name, Kind: FieldAttribute}
}

func toOneField(name string) FieldMetadata {
	return FieldMetadata{Name: name, Kind: FieldToOne}
}

func toManyField(name string) FieldMetadata {
	return FieldMetadata{Name: name, Kind: FieldToMany}
}

// blogIntrospector registers author, post and comment types
func blogIntrospector() *fakeIntrospector {
	f := newFakeIntrospector()
	f.register("author", idField(), attrField("name"), toManyField("posts"))
	f.register("post", idField(), attrField("title"), toOneField("author"), toManyField("comments"))
	f.register("comment", idField(), attrField("body"), toOneField("post"))
	return f
}

func newBlogAssembler(opts ...Option) *Assembler {
	return NewAssembler(blogIntrospector(), &fakeProvider{naming: identityNaming}, opts...)
}

func upper(s string) string { return strings.ToUpper(s) }
