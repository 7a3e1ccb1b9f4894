package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataBundle(t *testing.T) {
	uri := MustParseURI("extractor.metadata.exiftool.PDF:Producer")
	generic := MustParseURI("generic.metadata.producer")

	b, err := NewDataBundle(uri, "pdfTeX", StringCoercer, false, generic,
		[]WeightedFieldMapping{{Field: FieldProducer, Weight: 1}}, "exiftool")
	require.NoError(t, err)
	assert.Equal(t, "pdfTeX", b.Value)
	assert.Equal(t, 1.0, b.WeightFor(FieldProducer))
	assert.Equal(t, 0.0, b.WeightFor(FieldTitle))
}

func TestNewDataBundle_Invalid(t *testing.T) {
	uri := MustParseURI("extractor.filesystem.filetags.tags")

	tests := []struct {
		name        string
		value       any
		coercer     Coercer
		multivalued bool
		generic     DataURI
		mapped      []WeightedFieldMapping
	}{
		{"no coercer", "x", nil, false, DataURI{}, nil},
		{"multivalued scalar", "x", StringCoercer, true, DataURI{}, nil},
		{"single list", []any{"x"}, StringCoercer, false, DataURI{}, nil},
		{"wrong type", int64(1), StringCoercer, false, DataURI{}, nil},
		{"concrete generic", "x", StringCoercer, false, uri, nil},
		{"weight out of range", "x", StringCoercer, false, DataURI{}, []WeightedFieldMapping{{Field: FieldTitle, Weight: 1.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataBundle(uri, tt.value, tt.coercer, tt.multivalued, tt.generic, tt.mapped, "test")
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDataBundle_Multivalued(t *testing.T) {
	uri := MustParseURI("extractor.filesystem.filetags.tags")
	b, err := NewDataBundle(uri, []any{"a", "b"}, StringCoercer, true, DataURI{}, nil, "filetags")
	require.NoError(t, err)

	s, err := b.Format()
	require.NoError(t, err)
	assert.Equal(t, "a, b", s)
}

func TestDataBundle_SecondaryWeight(t *testing.T) {
	b := DataBundle{MappedFields: []WeightedFieldMapping{
		{Field: FieldDescription, Weight: 1},
		{Field: FieldTitle, Weight: 0.5},
		{Field: FieldTags, Weight: 0.25},
	}}

	assert.Equal(t, 0.5, b.SecondaryWeight(FieldDescription))
	assert.Equal(t, 1.0, b.SecondaryWeight(FieldTitle))
	assert.Equal(t, 0.0, DataBundle{}.SecondaryWeight(FieldTitle))
}

func TestDataBundle_WithValue(t *testing.T) {
	b := DataBundle{Value: "Foo publications", Coercer: StringCoercer,
		MappedFields: []WeightedFieldMapping{{Field: FieldPublisher, Weight: 1}}}

	c := b.WithValue("Foo PUBLISHING", false)
	c.MappedFields[0].Weight = 0.1

	assert.Equal(t, "Foo publications", b.Value)
	assert.Equal(t, "Foo PUBLISHING", c.Value)
	assert.Equal(t, 1.0, b.MappedFields[0].Weight)
}

func TestMetainfo_Validate(t *testing.T) {
	ok := Metainfo{"title": {Coercer: StringCoercer, Generic: MustParseURI("generic.metadata.title")}}
	assert.NoError(t, ok.Validate())

	missing := Metainfo{"title": {}}
	assert.ErrorIs(t, missing.Validate(), ErrInvalidInput)

	badWeight := Metainfo{"title": {Coercer: StringCoercer,
		MappedFields: []WeightedFieldMapping{{Field: FieldTitle, Weight: -1}}}}
	assert.ErrorIs(t, badWeight.Validate(), ErrInvalidInput)
}
