package jsonapi

import (
	"go.uber.org/zap"
)

// ResourceBuilder converts objects into resource objects, appending requested
// related resources to a document's included set as it goes.
type ResourceBuilder struct {
	introspector Introspector
	attributes   AttributeProvider
	identifiers  *IdentifierBuilder
	logger       *zap.Logger
}

// NewResourceBuilder creates a resource builder. A nil logger disables logging.
func NewResourceBuilder(introspector Introspector, attributes AttributeProvider, logger *zap.Logger) *ResourceBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceBuilder{
		introspector: introspector,
		attributes:   attributes,
		identifiers:  NewIdentifierBuilder(introspector),
		logger:       logger,
	}
}

// Build produces the resource object for obj.
//
// scope holds the relationships to include from obj downwards. allow restricts
// which relationships are emitted at all: nil means every relationship, a
// non-nil slice (even an empty one) means only the listed serialized names.
func (b *ResourceBuilder) Build(doc Document, obj any, scope IncludeScope, allow []string) (*ResourceObject, error) {
	meta, err := b.introspector.Metadata(obj)
	if err != nil {
		return nil, err
	}

	id, err := b.identifiers.build(obj, meta)
	if err != nil {
		return nil, err
	}

	serialized, err := b.attributes.Serialize(obj)
	if err != nil {
		return nil, err
	}
	if serialized.Naming == nil {
		return nil, &NamingStrategyUnavailableError{Type: meta.TypeName}
	}

	resource := NewResourceObject(id)

	for _, field := range meta.Fields {
		if field.Kind == FieldIdentifier {
			continue
		}

		name := field.SerializedName
		if name == "" {
			name = serialized.Naming.TranslateName(field.Name)
		}

		switch field.Kind {
		case FieldToOne, FieldToMany:
			if allow != nil && !contains(allow, name) {
				continue
			}
			rel, err := b.buildRelationship(doc, obj, field, name, scope)
			if err != nil {
				return nil, err
			}
			resource.SetRelationship(name, rel)

		default:
			value, ok := serialized.Values[name]
			if !ok {
				return nil, &AttributeLookupMismatchError{Type: meta.TypeName, Property: name}
			}
			resource.SetAttribute(name, value)
		}
	}

	return resource, nil
}

// buildRelationship builds the relationship for one association field and
// includes its targets when name is part of the scope
func (b *ResourceBuilder) buildRelationship(doc Document, obj any, field FieldMetadata, name string, scope IncludeScope) (Relationship, error) {
	include := scope.Has(name)
	sub := scope.Sub(name)

	if field.Kind == FieldToOne {
		target, err := b.introspector.ToOne(obj, field)
		if err != nil {
			return nil, err
		}

		rel := &ToOneRelationship{}
		if target == nil {
			return rel, nil
		}

		id, err := b.identifiers.Build(target)
		if err != nil {
			return nil, err
		}
		rel.Data = &id

		if include {
			if err := b.include(doc, target, name, sub); err != nil {
				return nil, err
			}
		}
		return rel, nil
	}

	targets, err := b.introspector.ToMany(obj, field)
	if err != nil {
		return nil, err
	}

	rel := NewToManyRelationship()
	for _, target := range targets {
		id, err := b.identifiers.Build(target)
		if err != nil {
			return nil, err
		}
		rel.AddData(id)

		if include {
			if err := b.include(doc, target, name, sub); err != nil {
				return nil, err
			}
		}
	}
	return rel, nil
}

// include builds the full resource for target and appends it to doc
func (b *ResourceBuilder) include(doc Document, target any, name string, sub IncludeScope) error {
	related, err := b.Build(doc, target, sub, sub.Names())
	if err != nil {
		return err
	}

	b.logger.Debug("included related resource",
		zap.String("relationship", name),
		zap.String("type", related.Type),
		zap.Any("id", related.ID),
	)

	doc.AddIncluded(related)
	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
