package metainfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

func TestParse(t *testing.T) {
	data := []byte(`
datetime:
  coercer: datetime
  generic: generic.metadata.date_created
  mapped_fields:
    - field: date
      weight: 1
    - field: datetime
      weight: 0.5
tags:
  coercer: string
  multivalued: true
`)

	meta, err := Parse(data)

	require.NoError(t, err)
	require.Len(t, meta, 2)
	dt := meta["datetime"]
	assert.Equal(t, domain.DateTimeCoercer, dt.Coercer)
	assert.Equal(t, "generic.metadata.date_created", dt.Generic.String())
	assert.Equal(t, []domain.WeightedFieldMapping{
		{Field: domain.FieldDate, Weight: 1},
		{Field: domain.FieldDateTime, Weight: 0.5},
	}, dt.MappedFields)
	assert.True(t, meta["tags"].Multivalued)
	assert.True(t, meta["tags"].Generic.IsZero())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "a: [b"},
		{"unknown coercer", "a:\n  coercer: nope\n"},
		{"concrete generic", "a:\n  coercer: string\n  generic: extractor.foo.bar\n"},
		{"bad generic", "a:\n  coercer: string\n  generic: generic.x\n"},
		{"unknown field", "a:\n  coercer: string\n  mapped_fields:\n    - field: colour\n      weight: 1\n"},
		{"weight out of range", "a:\n  coercer: string\n  mapped_fields:\n    - field: title\n      weight: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse([]byte("a:\n  coercer: nope\n")) })
}
