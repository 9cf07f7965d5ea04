// Package schema provides the declared mapping metadata for persisted resources.
// A ResourceSchema records which Go struct field holds the primary key, which
// fields are plain columns and which are associations, together with the
// association cardinality and the explicit wire name of every member.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	utilstrings "github.com/conduit-lang/jsonapi-view/internal/util/strings"
)

// RelationType represents the type of relationship
type RelationType int

const (
	RelationshipBelongsTo RelationType = iota
	RelationshipHasMany
	RelationshipHasManyThrough
	RelationshipHasOne
)

// String returns the string representation of the relationship type
func (r RelationType) String() string {
	switch r {
	case RelationshipBelongsTo:
		return "belongs_to"
	case RelationshipHasMany:
		return "has_many"
	case RelationshipHasManyThrough:
		return "has_many_through"
	case RelationshipHasOne:
		return "has_one"
	default:
		return "unknown"
	}
}

// IsCollection returns true if the relationship holds many targets
func (r RelationType) IsCollection() bool {
	return r == RelationshipHasMany || r == RelationshipHasManyThrough
}

// ParseRelationType converts a string to a RelationType
func ParseRelationType(s string) (RelationType, error) {
	switch s {
	case "belongs_to":
		return RelationshipBelongsTo, nil
	case "has_many":
		return RelationshipHasMany, nil
	case "has_many_through":
		return RelationshipHasManyThrough, nil
	case "has_one":
		return RelationshipHasOne, nil
	default:
		return 0, fmt.Errorf("unknown relationship type: %s", s)
	}
}

// Annotation represents field annotations like @primary, @unique
type Annotation struct {
	Name string
	Args []interface{}
}

// Field represents a plain (non-association) member of a resource
type Field struct {
	// Name is the Go struct field name
	Name string
	// SerializedName is the explicitly declared wire name, empty if undeclared
	SerializedName string
	Annotations    []Annotation
}

// IsPrimary returns true if the field is annotated as primary key
func (f *Field) IsPrimary() bool {
	return f.HasAnnotation("primary")
}

// HasAnnotation returns true if the field carries the named annotation
func (f *Field) HasAnnotation(name string) bool {
	for _, a := range f.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Relationship represents a relationship between resources
type Relationship struct {
	Type           RelationType
	TargetResource string
	// FieldName is the Go struct field holding the association
	FieldName      string
	SerializedName string
	Nullable       bool
}

// ResourceSchema represents the complete mapping for a resource
type ResourceSchema struct {
	Name      string
	TableName string

	Fields        map[string]*Field
	Relationships map[string]*Relationship

	// GoType is the struct type the schema maps, nil for detached schemas
	GoType reflect.Type

	// order keeps fields and relationships in declaration order
	order []string
}

// NewResourceSchema creates a new ResourceSchema
func NewResourceSchema(name string) *ResourceSchema {
	return &ResourceSchema{
		Name:          name,
		TableName:     utilstrings.ToSnakeCase(name) + "s",
		Fields:        make(map[string]*Field),
		Relationships: make(map[string]*Relationship),
	}
}

// AddField appends a plain field in declaration order
func (r *ResourceSchema) AddField(field *Field) *ResourceSchema {
	if !r.HasField(field.Name) && !r.HasRelationship(field.Name) {
		r.order = append(r.order, field.Name)
	}
	r.Fields[field.Name] = field
	return r
}

// AddRelationship appends an association in declaration order
func (r *ResourceSchema) AddRelationship(rel *Relationship) *ResourceSchema {
	if !r.HasField(rel.FieldName) && !r.HasRelationship(rel.FieldName) {
		r.order = append(r.order, rel.FieldName)
	}
	r.Relationships[rel.FieldName] = rel
	return r
}

// Members returns field and relationship names in declaration order
func (r *ResourceSchema) Members() []string {
	members := make([]string, len(r.order))
	copy(members, r.order)
	return members
}

// TypeName returns the lowercased resource name used as the JSON:API type
func (r *ResourceSchema) TypeName() string {
	return strings.ToLower(r.Name)
}

// PrimaryKeys returns every field annotated as primary, in declaration order
func (r *ResourceSchema) PrimaryKeys() []*Field {
	var keys []*Field
	for _, name := range r.order {
		if field, ok := r.Fields[name]; ok && field.IsPrimary() {
			keys = append(keys, field)
		}
	}
	return keys
}

// GetPrimaryKey returns the primary key field
func (r *ResourceSchema) GetPrimaryKey() (*Field, error) {
	keys := r.PrimaryKeys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("resource %s has no primary key", r.Name)
	}
	if len(keys) > 1 {
		return nil, fmt.Errorf("resource %s has %d primary keys", r.Name, len(keys))
	}
	return keys[0], nil
}

// HasField returns true if the resource has a field with the given name
func (r *ResourceSchema) HasField(name string) bool {
	_, exists := r.Fields[name]
	return exists
}

// HasRelationship returns true if the resource has a relationship with the given name
func (r *ResourceSchema) HasRelationship(name string) bool {
	_, exists := r.Relationships[name]
	return exists
}
