package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResourceIdentifier identifies a resource without its attributes
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   any    `json:"id"`
}

// Equal reports structural equality on (type, id)
func (ri ResourceIdentifier) Equal(other ResourceIdentifier) bool {
	return ri.Key() == other.Key()
}

// Key returns a string usable as a map key for the (type, id) pair
func (ri ResourceIdentifier) Key() string {
	return fmt.Sprintf("%s:%v", ri.Type, ri.ID)
}

// Attributes is an insertion-ordered attribute map. Keys are serialized in the
// order they were first set.
type Attributes struct {
	keys   []string
	values map[string]any
}

// NewAttributes creates an empty attribute map
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]any)}
}

// Set stores a value; overwriting an existing key keeps its position
func (a *Attributes) Set(name string, value any) {
	if _, exists := a.values[name]; !exists {
		a.keys = append(a.keys, name)
	}
	a.values[name] = value
}

// Get returns the value stored under name
func (a *Attributes) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Len returns the number of attributes
func (a *Attributes) Len() int {
	return len(a.keys)
}

// Keys returns the attribute names in insertion order
func (a *Attributes) Keys() []string {
	keys := make([]string, len(a.keys))
	copy(keys, a.keys)
	return keys
}

// Retain drops every attribute for which keep returns false
func (a *Attributes) Retain(keep func(name string) bool) {
	kept := a.keys[:0]
	for _, k := range a.keys {
		if keep(k) {
			kept = append(kept, k)
			continue
		}
		delete(a.values, k)
	}
	a.keys = kept
}

// Map returns an unordered copy of the attributes
func (a *Attributes) Map() map[string]any {
	m := make(map[string]any, len(a.values))
	for k, v := range a.values {
		m[k] = v
	}
	return m
}

// MarshalJSON writes the attributes as a JSON object in insertion order
func (a *Attributes) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal attribute %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Cardinality is the declared multiplicity of a relationship
type Cardinality int

const (
	// ToOne links a resource to at most one other resource
	ToOne Cardinality = iota
	// ToMany links a resource to an ordered list of resources
	ToMany
)

// String returns the string representation of the cardinality
func (c Cardinality) String() string {
	switch c {
	case ToOne:
		return "to-one"
	case ToMany:
		return "to-many"
	default:
		return "unknown"
	}
}

// Relationship is either a *ToOneRelationship or a *ToManyRelationship
type Relationship interface {
	Cardinality() Cardinality
	// Identifiers returns the linked identifiers; empty for a null to-one
	Identifiers() []ResourceIdentifier
	relationship()
}

// ToOneRelationship links to a single resource or to nothing
type ToOneRelationship struct {
	Data *ResourceIdentifier `json:"data"`
}

func (r *ToOneRelationship) Cardinality() Cardinality { return ToOne }

func (r *ToOneRelationship) Identifiers() []ResourceIdentifier {
	if r.Data == nil {
		return nil
	}
	return []ResourceIdentifier{*r.Data}
}

func (r *ToOneRelationship) relationship() {}

// ToManyRelationship links to an ordered list of resources
type ToManyRelationship struct {
	Data []ResourceIdentifier `json:"data"`
}

// NewToManyRelationship creates a to-many relationship with an empty, non-nil data list
func NewToManyRelationship() *ToManyRelationship {
	return &ToManyRelationship{Data: make([]ResourceIdentifier, 0)}
}

// AddData appends an identifier
func (r *ToManyRelationship) AddData(id ResourceIdentifier) {
	r.Data = append(r.Data, id)
}

func (r *ToManyRelationship) Cardinality() Cardinality { return ToMany }

func (r *ToManyRelationship) Identifiers() []ResourceIdentifier { return r.Data }

func (r *ToManyRelationship) relationship() {}

// ResourceObject is the full representation of a single resource
type ResourceObject struct {
	Type          string                  `json:"type"`
	ID            any                     `json:"id"`
	Attributes    *Attributes             `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships"`
}

// NewResourceObject creates a resource object with empty attributes and relationships
func NewResourceObject(id ResourceIdentifier) *ResourceObject {
	return &ResourceObject{
		Type:          id.Type,
		ID:            id.ID,
		Attributes:    NewAttributes(),
		Relationships: make(map[string]Relationship),
	}
}

// Identifier returns the (type, id) pair of the resource
func (ro *ResourceObject) Identifier() ResourceIdentifier {
	return ResourceIdentifier{Type: ro.Type, ID: ro.ID}
}

// SetAttribute sets a serialized attribute value
func (ro *ResourceObject) SetAttribute(name string, value any) {
	ro.Attributes.Set(name, value)
}

// SetRelationship sets a relationship by serialized name
func (ro *ResourceObject) SetRelationship(name string, rel Relationship) {
	ro.Relationships[name] = rel
}

// Document is either a *ResourceDocument or a *CollectionDocument. Both carry
// the included resources accumulated over a whole build.
type Document interface {
	IsCollection() bool
	Resources() []*ResourceObject
	Included() []*ResourceObject
	AddIncluded(resource *ResourceObject)
	setIncluded(resources []*ResourceObject)
}

type includedSet struct {
	included []*ResourceObject
}

func (s *includedSet) Included() []*ResourceObject {
	if s.included == nil {
		return []*ResourceObject{}
	}
	return s.included
}

func (s *includedSet) AddIncluded(resource *ResourceObject) {
	s.included = append(s.included, resource)
}

func (s *includedSet) setIncluded(resources []*ResourceObject) {
	s.included = resources
}

// ResourceDocument is a document whose primary data is a single resource
type ResourceDocument struct {
	includedSet
	Data *ResourceObject
}

// NewResourceDocument creates an empty single-resource document
func NewResourceDocument() *ResourceDocument {
	return &ResourceDocument{}
}

func (d *ResourceDocument) IsCollection() bool { return false }

// Resources returns the primary resource as a one-element slice
func (d *ResourceDocument) Resources() []*ResourceObject {
	if d.Data == nil {
		return nil
	}
	return []*ResourceObject{d.Data}
}

// SetData sets the primary resource
func (d *ResourceDocument) SetData(resource *ResourceObject) {
	d.Data = resource
}

// MarshalJSON writes {"data": {...}, "included": [...]}
func (d *ResourceDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data     *ResourceObject   `json:"data"`
		Included []*ResourceObject `json:"included"`
	}{d.Data, d.Included()})
}

// CollectionDocument is a document whose primary data is a list of resources
type CollectionDocument struct {
	includedSet
	Data []*ResourceObject
}

// NewCollectionDocument creates an empty collection document
func NewCollectionDocument() *CollectionDocument {
	return &CollectionDocument{Data: make([]*ResourceObject, 0)}
}

func (d *CollectionDocument) IsCollection() bool { return true }

func (d *CollectionDocument) Resources() []*ResourceObject { return d.Data }

// AddData appends a primary resource
func (d *CollectionDocument) AddData(resource *ResourceObject) {
	d.Data = append(d.Data, resource)
}

// MarshalJSON writes {"data": [...], "included": [...]}
func (d *CollectionDocument) MarshalJSON() ([]byte, error) {
	data := d.Data
	if data == nil {
		data = []*ResourceObject{}
	}
	return json.Marshal(struct {
		Data     []*ResourceObject `json:"data"`
		Included []*ResourceObject `json:"included"`
	}{data, d.Included()})
}
