package jsonapi

import (
	"errors"
	"fmt"
)

// Sentinel errors for the document build taxonomy. Every typed error below
// matches exactly one of these through errors.Is.
var (
	// ErrMissingIdentifier is returned when a type does not declare exactly one identifier
	ErrMissingIdentifier = errors.New("object must declare exactly one identifier field")

	// ErrIdentifierPropertyNotFound is returned when the declared identifier is not on the object
	ErrIdentifierPropertyNotFound = errors.New("identifier property not found on object")

	// ErrAttributeLookupMismatch is returned when a declared field has no serialized value
	ErrAttributeLookupMismatch = errors.New("unable to read serialized property")

	// ErrNamingStrategyUnavailable is returned when the serializer exposes no naming strategy
	ErrNamingStrategyUnavailable = errors.New("could not get serializer naming strategy")

	// ErrMetadataUnavailable is returned when no metadata exists for an object's type
	ErrMetadataUnavailable = errors.New("no metadata available for type")
)

// MissingIdentifierError reports a type declaring zero or several identifier fields.
type MissingIdentifierError struct {
	Type  string
	Count int
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("%s: type %q declares %d identifier fields", ErrMissingIdentifier, e.Type, e.Count)
}

func (e *MissingIdentifierError) Unwrap() error { return ErrMissingIdentifier }

// IdentifierPropertyNotFoundError reports an identifier declared in metadata but
// absent from the object itself.
type IdentifierPropertyNotFoundError struct {
	Type     string
	Property string
}

func (e *IdentifierPropertyNotFoundError) Error() string {
	return fmt.Sprintf("identifier member %q not found in object of type %q", e.Property, e.Type)
}

func (e *IdentifierPropertyNotFoundError) Unwrap() error { return ErrIdentifierPropertyNotFound }

// AttributeLookupMismatchError reports a field whose serialized value is missing.
type AttributeLookupMismatchError struct {
	Type     string
	Property string
}

func (e *AttributeLookupMismatchError) Error() string {
	return fmt.Sprintf("unable to read property %q of type %q", e.Property, e.Type)
}

func (e *AttributeLookupMismatchError) Unwrap() error { return ErrAttributeLookupMismatch }

// NamingStrategyUnavailableError reports a serialization pass without a naming strategy.
type NamingStrategyUnavailableError struct {
	Type string
}

func (e *NamingStrategyUnavailableError) Error() string {
	return fmt.Sprintf("%s for type %q", ErrNamingStrategyUnavailable, e.Type)
}

func (e *NamingStrategyUnavailableError) Unwrap() error { return ErrNamingStrategyUnavailable }

// MetadataUnavailableError reports an object whose type has no introspectable metadata.
type MetadataUnavailableError struct {
	Type string
}

func (e *MetadataUnavailableError) Error() string {
	return fmt.Sprintf("could not load metadata for type %q", e.Type)
}

func (e *MetadataUnavailableError) Unwrap() error { return ErrMetadataUnavailable }

// IsBuildError returns true if err belongs to the document build taxonomy
func IsBuildError(err error) bool {
	return errors.Is(err, ErrMissingIdentifier) ||
		errors.Is(err, ErrIdentifierPropertyNotFound) ||
		errors.Is(err, ErrAttributeLookupMismatch) ||
		errors.Is(err, ErrNamingStrategyUnavailable) ||
		errors.Is(err, ErrMetadataUnavailable)
}
