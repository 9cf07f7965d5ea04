package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Struct tags read by the builder.
//
//	type Post struct {
//	    ID       int64      `orm:"primary" json:"id"`
//	    Title    string     `json:"title"`
//	    Author   *Author    `orm:"belongs_to,nullable" json:"author"`
//	    Comments []*Comment `orm:"has_many"`
//	}
//
// The orm tag holds a comma separated list: a relationship type, "target=Name"
// to override the inferred target resource, "nullable", or any other word,
// which becomes an annotation ("primary", "unique", ...). orm:"-" and
// json:"-" both exclude the member from the mapping.
const (
	ormTag  = "orm"
	jsonTag = "json"
)

// Builder builds ResourceSchema values from Go struct types
type Builder struct {
	errors []error
}

// NewBuilder creates a new schema builder
func NewBuilder() *Builder {
	return &Builder{
		errors: make([]error, 0),
	}
}

// BuildFromValue builds the schema of v's struct type
func (b *Builder) BuildFromValue(v any) (*ResourceSchema, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot build schema from nil value")
	}
	return b.Build(reflect.TypeOf(v))
}

// Build converts a struct type (or pointer to struct) to a ResourceSchema
func (b *Builder) Build(t reflect.Type) (*ResourceSchema, error) {
	b.errors = make([]error, 0)

	t = indirectType(t)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot build schema from %s: not a struct", t)
	}

	schema := NewResourceSchema(t.Name())
	schema.GoType = t

	b.collect(schema, t)

	if len(b.errors) > 0 {
		var errMsgs []string
		for _, err := range b.errors {
			errMsgs = append(errMsgs, err.Error())
		}
		return nil, fmt.Errorf("schema building failed with %d errors:\n%s",
			len(b.errors), strings.Join(errMsgs, "\n"))
	}

	return schema, nil
}

// collect walks the exported fields of t, flattening untagged embedded structs
func (b *Builder) collect(schema *ResourceSchema, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		if sf.Anonymous && sf.Tag.Get(jsonTag) == "" && sf.Tag.Get(ormTag) == "" {
			if et := indirectType(sf.Type); et.Kind() == reflect.Struct {
				b.collect(schema, et)
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}

		member, ok := b.buildMember(schema.Name, sf)
		if !ok {
			continue
		}

		switch m := member.(type) {
		case *Field:
			schema.AddField(m)
		case *Relationship:
			schema.AddRelationship(m)
		}
	}
}

// buildMember converts one struct field into a *Field or *Relationship
func (b *Builder) buildMember(resource string, sf reflect.StructField) (interface{}, bool) {
	serializedName, skip := parseJSONName(sf.Tag.Get(jsonTag))
	if skip {
		return nil, false
	}

	var (
		relType     *RelationType
		target      string
		nullable    bool
		annotations []Annotation
	)

	ormValue := sf.Tag.Get(ormTag)
	if ormValue == "-" {
		return nil, false
	}

	for _, token := range strings.Split(ormValue, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "":
		case strings.HasPrefix(token, "target="):
			target = strings.TrimPrefix(token, "target=")
		case token == "nullable":
			nullable = true
		default:
			if rt, err := ParseRelationType(token); err == nil {
				if relType != nil {
					b.errors = append(b.errors, fmt.Errorf("%s.%s: multiple relationship types", resource, sf.Name))
					return nil, false
				}
				relType = &rt
				continue
			}
			annotations = append(annotations, Annotation{Name: token})
		}
	}

	if relType == nil {
		return &Field{
			Name:           sf.Name,
			SerializedName: serializedName,
			Annotations:    annotations,
		}, true
	}

	if len(annotations) > 0 {
		b.errors = append(b.errors, fmt.Errorf("%s.%s: relationship cannot carry annotation %q",
			resource, sf.Name, annotations[0].Name))
		return nil, false
	}

	if err := checkAssociationType(*relType, sf.Type); err != nil {
		b.errors = append(b.errors, fmt.Errorf("%s.%s: %w", resource, sf.Name, err))
		return nil, false
	}

	if target == "" {
		target = targetName(sf.Type)
	}

	return &Relationship{
		Type:           *relType,
		TargetResource: target,
		FieldName:      sf.Name,
		SerializedName: serializedName,
		Nullable:       nullable || *relType == RelationshipBelongsTo || *relType == RelationshipHasOne,
	}, true
}

// checkAssociationType verifies the Go type can hold the declared cardinality
func checkAssociationType(rt RelationType, t reflect.Type) error {
	kind := t.Kind()
	collection := kind == reflect.Slice || kind == reflect.Array
	if rt.IsCollection() && !collection {
		return fmt.Errorf("%s association must be a slice or array, got %s", rt, t)
	}
	if !rt.IsCollection() && collection {
		return fmt.Errorf("%s association must not be a collection, got %s", rt, t)
	}
	return nil
}

// parseJSONName returns the explicit name of a json tag and whether the tag excludes the field
func parseJSONName(tag string) (string, bool) {
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}

// targetName infers the target resource from an association's element type
func targetName(t reflect.Type) string {
	t = indirectType(t)
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = indirectType(t.Elem())
	}
	return t.Name()
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
