package schema

import (
	"fmt"
	"strings"
	"sync"
)

// ValidationError represents a schema validation error with context
type ValidationError struct {
	Resource string
	Field    string
	Message  string
	Hint     string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	var b strings.Builder

	if e.Resource != "" {
		b.WriteString(e.Resource)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// SchemaValidator validates resource schemas.
//
// The identifier count is deliberately not checked here: a type with zero or
// several primary keys is reported when a document is built for it.
type SchemaValidator struct {
	mu sync.Mutex
}

// NewSchemaValidator creates a new schema validator
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// ValidateStructural validates a single resource schema without cross-resource checks
func (v *SchemaValidator) ValidateStructural(schema *ResourceSchema) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var errs []*ValidationError

	if schema.Name == "" {
		errs = append(errs, &ValidationError{Message: "resource name must not be empty"})
	}

	// Explicit wire names must be unique within a resource
	seen := make(map[string]string)
	for _, member := range schema.Members() {
		name := ""
		if f, ok := schema.Fields[member]; ok {
			name = f.SerializedName
		} else if rel, ok := schema.Relationships[member]; ok {
			name = rel.SerializedName
			if rel.TargetResource == "" {
				errs = append(errs, &ValidationError{
					Resource: schema.Name,
					Field:    member,
					Message:  "relationship has no target resource",
					Hint:     `declare one with orm:"<type>,target=Name"`,
				})
			}
		}
		if name == "" {
			continue
		}
		if other, dup := seen[name]; dup {
			errs = append(errs, &ValidationError{
				Resource: schema.Name,
				Field:    member,
				Message:  fmt.Sprintf("serialized name %q already used by %s", name, other),
			})
			continue
		}
		seen[name] = member
	}

	return joinValidationErrors("schema validation", errs)
}

// joinValidationErrors folds validation errors into a single error, nil when empty
func joinValidationErrors(what string, errs []*ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	var errMsgs []string
	for _, err := range errs {
		errMsgs = append(errMsgs, err.Error())
	}
	return fmt.Errorf("%s failed with %d errors:\n%s", what, len(errs), strings.Join(errMsgs, "\n"))
}
