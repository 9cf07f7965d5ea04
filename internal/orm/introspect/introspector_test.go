package introspect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
	"github.com/conduit-lang/jsonapi-view/internal/orm/schema"
)

type Author struct {
	ID    int64   `orm:"primary" json:"id"`
	Name  string  `json:"name"`
	Posts []*Post `orm:"has_many"`
}

type Audit struct {
	Editor string
}

type Post struct {
	*Audit
	ID     int64   `orm:"primary"`
	Title  string  `json:"headline"`
	Author *Author `orm:"belongs_to"`
	Tags   []string
	secret string
}

func newIntrospector(t *testing.T) *Introspector {
	t.Helper()
	registry := schema.NewRegistry()
	registry.MustRegisterTypes(Author{}, Post{})
	require.NoError(t, registry.ValidateAll())
	return New(registry)
}

func TestIntrospector_Metadata(t *testing.T) {
	in := newIntrospector(t)

	meta, err := in.Metadata(&Post{})
	require.NoError(t, err)

	assert.Equal(t, "post", meta.TypeName)
	assert.Equal(t, []jsonapi.FieldMetadata{
		{Name: "Editor", Kind: jsonapi.FieldAttribute},
		{Name: "ID", Kind: jsonapi.FieldIdentifier},
		{Name: "Title", SerializedName: "headline", Kind: jsonapi.FieldAttribute},
		{Name: "Author", Kind: jsonapi.FieldToOne},
		{Name: "Tags", Kind: jsonapi.FieldAttribute},
	}, meta.Fields)
	assert.Equal(t, []string{"ID"}, meta.IdentifierFields())

	// values and pointers share metadata
	again, err := in.Metadata(Post{})
	require.NoError(t, err)
	assert.Equal(t, meta.Fields, again.Fields)

	authorMeta, err := in.Metadata(&Author{})
	require.NoError(t, err)
	assert.Equal(t, jsonapi.FieldToMany, authorMeta.Fields[2].Kind)
}

func TestIntrospector_MetadataUnavailable(t *testing.T) {
	in := newIntrospector(t)

	tests := []struct {
		name string
		obj  any
	}{
		{"nil", nil},
		{"nil pointer", (*Post)(nil)},
		{"unmapped type", &Audit{}},
		{"scalar", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := in.Metadata(tt.obj)
			require.Error(t, err)
			assert.True(t, errors.Is(err, jsonapi.ErrMetadataUnavailable))

			var target *jsonapi.MetadataUnavailableError
			assert.ErrorAs(t, err, &target)
		})
	}
}

func TestIntrospector_Property(t *testing.T) {
	in := newIntrospector(t)
	post := &Post{ID: 7, Title: "Hello", Audit: &Audit{Editor: "ann"}, secret: "x"}

	v, ok := in.Property(post, "ID")
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)

	v, ok = in.Property(*post, "Title")
	assert.True(t, ok)
	assert.Equal(t, "Hello", v)

	v, ok = in.Property(post, "Editor")
	assert.True(t, ok)
	assert.Equal(t, "ann", v)

	_, ok = in.Property(post, "Missing")
	assert.False(t, ok)

	_, ok = in.Property(post, "secret")
	assert.False(t, ok, "unexported fields are not readable")

	_, ok = in.Property(&Post{}, "Editor")
	assert.False(t, ok, "fields behind a nil embedded pointer are missing")

	_, ok = in.Property(nil, "ID")
	assert.False(t, ok)
}

func TestIntrospector_ToOne(t *testing.T) {
	in := newIntrospector(t)
	field := jsonapi.FieldMetadata{Name: "Author", Kind: jsonapi.FieldToOne}

	target, err := in.ToOne(&Post{}, field)
	require.NoError(t, err)
	assert.Nil(t, target)

	author := &Author{ID: 1}
	target, err = in.ToOne(&Post{Author: author}, field)
	require.NoError(t, err)
	assert.Same(t, author, target)

	_, err = in.ToOne(&Post{}, jsonapi.FieldMetadata{Name: "Editorial"})
	assert.Error(t, err)
}

func TestIntrospector_ToMany(t *testing.T) {
	in := newIntrospector(t)
	field := jsonapi.FieldMetadata{Name: "Posts", Kind: jsonapi.FieldToMany}

	targets, err := in.ToMany(&Author{}, field)
	require.NoError(t, err)
	assert.NotNil(t, targets)
	assert.Empty(t, targets)

	p1, p2 := &Post{ID: 1}, &Post{ID: 2}
	targets, err = in.ToMany(&Author{Posts: []*Post{p1, nil, p2}}, field)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Same(t, p1, targets[0])
	assert.Same(t, p2, targets[1])

	_, err = in.ToMany(&Post{}, jsonapi.FieldMetadata{Name: "Title", Kind: jsonapi.FieldToMany})
	assert.ErrorIs(t, err, ErrNotACollection)
}
