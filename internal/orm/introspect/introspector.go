// Package introspect answers identity and association questions about mapped
// objects by combining the schema registry with reflection on the values.
package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
	"github.com/conduit-lang/jsonapi-view/internal/orm/schema"
)

// ErrNotACollection is returned when a to-many association does not hold a slice or array
var ErrNotACollection = errors.New("association value is not a collection")

// Introspector implements jsonapi.Introspector over a schema.Registry
type Introspector struct {
	registry *schema.Registry

	mu    sync.RWMutex
	cache map[reflect.Type]*jsonapi.TypeMetadata
}

// New creates an introspector for the types mapped in registry
func New(registry *schema.Registry) *Introspector {
	return &Introspector{
		registry: registry,
		cache:    make(map[reflect.Type]*jsonapi.TypeMetadata),
	}
}

// Metadata returns the type metadata for obj
func (i *Introspector) Metadata(obj any) (*jsonapi.TypeMetadata, error) {
	if isNil(obj) {
		return nil, &jsonapi.MetadataUnavailableError{Type: fmt.Sprintf("%T", obj)}
	}

	t := reflect.TypeOf(obj)

	i.mu.RLock()
	meta, ok := i.cache[t]
	i.mu.RUnlock()
	if ok {
		return meta, nil
	}

	s, ok := i.registry.ForType(t)
	if !ok {
		return nil, &jsonapi.MetadataUnavailableError{Type: t.String()}
	}

	meta = convert(s)

	i.mu.Lock()
	i.cache[t] = meta
	i.mu.Unlock()

	return meta, nil
}

// convert maps a resource schema onto the document model's metadata shape
func convert(s *schema.ResourceSchema) *jsonapi.TypeMetadata {
	meta := &jsonapi.TypeMetadata{TypeName: s.TypeName()}

	for _, member := range s.Members() {
		if f, ok := s.Fields[member]; ok {
			kind := jsonapi.FieldAttribute
			if f.IsPrimary() {
				kind = jsonapi.FieldIdentifier
			}
			meta.Fields = append(meta.Fields, jsonapi.FieldMetadata{
				Name:           f.Name,
				SerializedName: f.SerializedName,
				Kind:           kind,
			})
			continue
		}

		rel := s.Relationships[member]
		kind := jsonapi.FieldToOne
		if rel.Type.IsCollection() {
			kind = jsonapi.FieldToMany
		}
		meta.Fields = append(meta.Fields, jsonapi.FieldMetadata{
			Name:           rel.FieldName,
			SerializedName: rel.SerializedName,
			Kind:           kind,
		})
	}

	return meta
}

// Property reads the named exported struct field from obj
func (i *Introspector) Property(obj any, name string) (any, bool) {
	v, ok := field(obj, name)
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// ToOne returns the associated object, or nil when the association is empty
func (i *Introspector) ToOne(obj any, f jsonapi.FieldMetadata) (any, error) {
	v, ok := field(obj, f.Name)
	if !ok {
		return nil, fmt.Errorf("association %s not found on %T", f.Name, obj)
	}
	if isNilValue(v) {
		return nil, nil
	}
	return v.Interface(), nil
}

// ToMany returns the associated objects in slice order. Nil elements are skipped.
func (i *Introspector) ToMany(obj any, f jsonapi.FieldMetadata) ([]any, error) {
	v, ok := field(obj, f.Name)
	if !ok {
		return nil, fmt.Errorf("association %s not found on %T", f.Name, obj)
	}

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return []any{}, nil
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("%s.%s: %w", reflect.TypeOf(obj), f.Name, ErrNotACollection)
	}

	targets := make([]any, 0, v.Len())
	for j := 0; j < v.Len(); j++ {
		elem := v.Index(j)
		if isNilValue(elem) {
			continue
		}
		targets = append(targets, elem.Interface())
	}
	return targets, nil
}

// field resolves an exported struct field, following promoted fields of
// embedded structs. Fields behind nil embedded pointers are reported missing.
func field(obj any, name string) (reflect.Value, bool) {
	if isNil(obj) {
		return reflect.Value{}, false
	}

	v := reflect.Indirect(reflect.ValueOf(obj))
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	sf, ok := v.Type().FieldByName(name)
	if !ok {
		return reflect.Value{}, false
	}

	fv, err := v.FieldByIndexErr(sf.Index)
	if err != nil || !fv.CanInterface() {
		return reflect.Value{}, false
	}
	return fv, true
}

func isNil(obj any) bool {
	if obj == nil {
		return true
	}
	return isNilValue(reflect.ValueOf(obj))
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}
