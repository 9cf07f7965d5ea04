package jsonapi

// FieldKind classifies a declared field of a resource type
type FieldKind int

const (
	// FieldAttribute is a plain serialized value
	FieldAttribute FieldKind = iota
	// FieldIdentifier is the field the resource id is read from
	FieldIdentifier
	// FieldToOne is a single-valued association
	FieldToOne
	// FieldToMany is a collection-valued association
	FieldToMany
)

// String returns the string representation of the field kind
func (k FieldKind) String() string {
	switch k {
	case FieldAttribute:
		return "attribute"
	case FieldIdentifier:
		return "identifier"
	case FieldToOne:
		return "to_one"
	case FieldToMany:
		return "to_many"
	default:
		return "unknown"
	}
}

// FieldMetadata describes one declared field of a resource type
type FieldMetadata struct {
	// Name is the declared property name on the object
	Name string
	// SerializedName is the explicitly declared wire name. Empty means the
	// serializer's naming strategy decides.
	SerializedName string
	Kind           FieldKind
}

// IsAssociation returns true for to-one and to-many fields
func (f FieldMetadata) IsAssociation() bool {
	return f.Kind == FieldToOne || f.Kind == FieldToMany
}

// TypeMetadata is the introspected shape of a resource type
type TypeMetadata struct {
	// TypeName is the JSON:API type string, lowercased by convention
	TypeName string
	// Fields in stable declaration order
	Fields []FieldMetadata
}

// IdentifierFields returns the names of all fields declared as identifiers
func (m *TypeMetadata) IdentifierFields() []string {
	var names []string
	for _, f := range m.Fields {
		if f.Kind == FieldIdentifier {
			names = append(names, f.Name)
		}
	}
	return names
}

// Introspector exposes identity and association metadata for objects.
// Implementations are typically backed by ORM mapping information.
type Introspector interface {
	// Metadata returns the type metadata for obj or a *MetadataUnavailableError
	Metadata(obj any) (*TypeMetadata, error)

	// Property reads a declared property from obj. The boolean is false when
	// obj has no such property.
	Property(obj any, name string) (any, bool)

	// ToOne returns the target of a single-valued association, nil when empty
	ToOne(obj any, field FieldMetadata) (any, error)

	// ToMany returns the targets of a collection-valued association in
	// iteration order
	ToMany(obj any, field FieldMetadata) ([]any, error)
}

// NamingStrategy translates a declared property name into its serialized name
type NamingStrategy interface {
	TranslateName(property string) string
}

// SerializedObject is the generic serializer's view of an object
type SerializedObject struct {
	// Values maps serialized names to already-serialized values
	Values map[string]any
	// Naming is the strategy the serializer used for undeclared names
	Naming NamingStrategy
}

// AttributeProvider produces the serialized representation of an object
type AttributeProvider interface {
	Serialize(obj any) (*SerializedObject, error)
}
