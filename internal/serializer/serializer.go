// Package serializer turns mapped structs into flat maps of serialized values
// keyed by wire name. It is the attribute source the document builder reads.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
)

// ExclusionFunc reports whether field of struct type t is left out of the output
type ExclusionFunc func(t reflect.Type, field string) bool

// Serializer implements jsonapi.AttributeProvider with encoding/json semantics
// for individual values and a naming strategy for untagged field names.
type Serializer struct {
	naming  jsonapi.NamingStrategy
	exclude ExclusionFunc
}

// Option configures a Serializer
type Option func(*Serializer)

// WithNaming sets the naming strategy. A nil strategy makes every
// serialization report no naming strategy to its caller.
func WithNaming(naming jsonapi.NamingStrategy) Option {
	return func(s *Serializer) {
		s.naming = naming
	}
}

// WithExclusion skips fields for which fn returns true. Association fields are
// usually excluded this way so that object graphs with back references stay finite.
func WithExclusion(fn ExclusionFunc) Option {
	return func(s *Serializer) {
		s.exclude = fn
	}
}

// New creates a serializer using snake_case naming by default
func New(opts ...Option) *Serializer {
	s := &Serializer{naming: SnakeCase}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize implements jsonapi.AttributeProvider
func (s *Serializer) Serialize(obj any) (*jsonapi.SerializedObject, error) {
	if obj == nil {
		return nil, fmt.Errorf("cannot serialize nil value")
	}

	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot serialize nil %T", obj)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot serialize %T: not a struct", obj)
	}

	values := make(map[string]any)
	if err := s.collect(values, v, v.Type()); err != nil {
		return nil, err
	}

	return &jsonapi.SerializedObject{Values: values, Naming: s.naming}, nil
}

// collect writes the serialized fields of v into values. owner is the
// outermost struct type, the one exclusion decisions are made against.
func (s *Serializer) collect(values map[string]any, v reflect.Value, owner reflect.Type) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}

		if sf.Anonymous && tag == "" {
			fv := v.Field(i)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				if err := s.collect(values, fv, owner); err != nil {
					return err
				}
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}
		if s.exclude != nil && s.exclude(owner, sf.Name) {
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			if s.naming == nil {
				// Untagged names cannot be resolved; the caller reports the missing strategy.
				continue
			}
			name = s.naming.TranslateName(sf.Name)
		}

		value, err := encode(v.Field(i).Interface())
		if err != nil {
			return fmt.Errorf("serialize %s.%s: %w", owner, sf.Name, err)
		}
		values[name] = value
	}

	return nil
}

// encode converts a Go value to its generic JSON form, keeping numbers exact
func encode(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
