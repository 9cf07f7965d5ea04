package jsonapi

// IdentifierBuilder derives resource identifiers from objects
type IdentifierBuilder struct {
	introspector Introspector
}

// NewIdentifierBuilder creates an identifier builder
func NewIdentifierBuilder(introspector Introspector) *IdentifierBuilder {
	return &IdentifierBuilder{introspector: introspector}
}

// Build returns the (type, id) pair of obj
func (b *IdentifierBuilder) Build(obj any) (ResourceIdentifier, error) {
	meta, err := b.introspector.Metadata(obj)
	if err != nil {
		return ResourceIdentifier{}, err
	}
	return b.build(obj, meta)
}

// build resolves the identifier using already loaded metadata
func (b *IdentifierBuilder) build(obj any, meta *TypeMetadata) (ResourceIdentifier, error) {
	idFields := meta.IdentifierFields()
	if len(idFields) != 1 {
		return ResourceIdentifier{}, &MissingIdentifierError{Type: meta.TypeName, Count: len(idFields)}
	}

	value, ok := b.introspector.Property(obj, idFields[0])
	if !ok {
		return ResourceIdentifier{}, &IdentifierPropertyNotFoundError{Type: meta.TypeName, Property: idFields[0]}
	}

	return ResourceIdentifier{Type: meta.TypeName, ID: value}, nil
}
