package schema

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry manages all resource schemas in the application
type Registry struct {
	schemas   map[string]*ResourceSchema
	byType    map[reflect.Type]*ResourceSchema
	validator *SchemaValidator
	mu        sync.RWMutex
}

// NewRegistry creates a new schema registry
func NewRegistry() *Registry {
	return &Registry{
		schemas:   make(map[string]*ResourceSchema),
		byType:    make(map[reflect.Type]*ResourceSchema),
		validator: NewSchemaValidator(),
	}
}

// Register registers a new resource schema
func (r *Registry) Register(schema *ResourceSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("resource %s is already registered", schema.Name)
	}
	if schema.GoType != nil {
		if _, exists := r.byType[schema.GoType]; exists {
			return fmt.Errorf("type %s is already registered", schema.GoType)
		}
	}

	// Relationship targets are checked in ValidateAll to allow forward references
	if err := r.validator.ValidateStructural(schema); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", schema.Name, err)
	}

	r.schemas[schema.Name] = schema
	if schema.GoType != nil {
		r.byType[schema.GoType] = schema
	}

	return nil
}

// RegisterType builds a schema from the struct tags of v's type and registers it
func (r *Registry) RegisterType(v any) (*ResourceSchema, error) {
	schema, err := NewBuilder().BuildFromValue(v)
	if err != nil {
		return nil, err
	}
	if err := r.Register(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// MustRegisterTypes registers every value's type and panics on error.
// Intended for package initialization with fixed model sets.
func (r *Registry) MustRegisterTypes(values ...any) {
	for _, v := range values {
		if _, err := r.RegisterType(v); err != nil {
			panic(err)
		}
	}
}

// Get retrieves a resource schema by name
func (r *Registry) Get(name string) (*ResourceSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[name]
	return schema, exists
}

// ForType retrieves the schema mapped to a struct type. Pointer types are
// resolved to their element type.
func (r *Registry) ForType(t reflect.Type) (*ResourceSchema, bool) {
	if t == nil {
		return nil, false
	}
	t = indirectType(t)

	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.byType[t]
	return schema, exists
}

// IsAssociation reports whether the named field of t is a mapped relationship
func (r *Registry) IsAssociation(t reflect.Type, fieldName string) bool {
	schema, ok := r.ForType(t)
	if !ok {
		return false
	}
	return schema.HasRelationship(fieldName)
}

// List returns a sorted list of all resource names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateAll checks that every relationship targets a registered resource
func (r *Registry) ValidateAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []*ValidationError
	for _, name := range sortedKeys(r.schemas) {
		schema := r.schemas[name]
		for _, member := range schema.Members() {
			rel, ok := schema.Relationships[member]
			if !ok {
				continue
			}
			if _, exists := r.schemas[rel.TargetResource]; !exists {
				errs = append(errs, &ValidationError{
					Resource: schema.Name,
					Field:    rel.FieldName,
					Message:  fmt.Sprintf("relationship references unknown resource %s", rel.TargetResource),
					Hint:     "register the target type before validating",
				})
			}
		}
	}

	return joinValidationErrors("relationship validation", errs)
}

// Clear removes all registered schemas (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas = make(map[string]*ResourceSchema)
	r.byType = make(map[reflect.Type]*ResourceSchema)
}

// Count returns the number of registered schemas
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.schemas)
}

func sortedKeys(m map[string]*ResourceSchema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
