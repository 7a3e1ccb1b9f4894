package domain

import (
	"fmt"
	"sort"
)

// WeightedFieldMapping associates a datum with a template field.
// Weight is the probability that the datum is a good value for the field.
type WeightedFieldMapping struct {
	Field  NameTemplateField
	Weight float64
}

// DataBundle is an extracted value with its type and provenance.
// Bundles are immutable once built; use WithValue to derive a new one.
type DataBundle struct {
	// URI is the concrete address the bundle was stored under.
	URI DataURI

	// Value is the coerced value. A []any when Multivalued.
	Value any

	// Coercer is the element coercer of Value.
	Coercer Coercer

	Multivalued bool

	// Generic is the generic field this datum carries, if any.
	Generic DataURI

	MappedFields []WeightedFieldMapping

	// Source names the producer.
	Source string
}

// NewDataBundle validates and builds a bundle.
func NewDataBundle(uri DataURI, value any, c Coercer, multivalued bool, generic DataURI,
	mapped []WeightedFieldMapping, source string) (DataBundle, error) {
	b := DataBundle{
		URI:          uri,
		Value:        value,
		Coercer:      c,
		Multivalued:  multivalued,
		Generic:      generic,
		MappedFields: append([]WeightedFieldMapping(nil), mapped...),
		Source:       source,
	}
	if err := b.Validate(); err != nil {
		return DataBundle{}, err
	}
	return b, nil
}

// Validate checks the bundle invariants.
func (b DataBundle) Validate() error {
	if b.Coercer == nil {
		return fmt.Errorf("bundle %s has no coercer: %w", b.URI, ErrInvalidInput)
	}
	if !b.Generic.IsZero() && !b.Generic.IsGeneric() {
		return fmt.Errorf("bundle %s generic tag %s is not generic: %w", b.URI, b.Generic, ErrInvalidInput)
	}
	for _, m := range b.MappedFields {
		if !m.Field.IsValid() || m.Weight < 0 || m.Weight > 1 {
			return fmt.Errorf("bundle %s has invalid field mapping %v: %w", b.URI, m, ErrInvalidInput)
		}
	}
	if b.Multivalued {
		if !ListOf(b.Coercer).Accepts(b.Value) {
			return fmt.Errorf("bundle %s: value %v is not a list of %s: %w", b.URI, b.Value, b.Coercer.Name(), ErrInvalidInput)
		}
		return nil
	}
	if !b.Coercer.Accepts(b.Value) {
		return fmt.Errorf("bundle %s: value %v not accepted by %s: %w", b.URI, b.Value, b.Coercer.Name(), ErrInvalidInput)
	}
	return nil
}

// WithValue returns a copy of b holding v.
func (b DataBundle) WithValue(v any, multivalued bool) DataBundle {
	c := b
	c.Value = v
	c.Multivalued = multivalued
	c.MappedFields = append([]WeightedFieldMapping(nil), b.MappedFields...)
	return c
}

// WeightFor returns the weight of the mapping to f, or 0.
func (b DataBundle) WeightFor(f NameTemplateField) float64 {
	for _, m := range b.MappedFields {
		if m.Field == f {
			return m.Weight
		}
	}
	return 0
}

// SecondaryWeight returns the highest weight among mappings to fields other than f.
func (b DataBundle) SecondaryWeight(f NameTemplateField) float64 {
	weights := make([]float64, 0, len(b.MappedFields))
	for _, m := range b.MappedFields {
		if m.Field != f {
			weights = append(weights, m.Weight)
		}
	}
	if len(weights) == 0 {
		return 0
	}
	sort.Float64s(weights)
	return weights[len(weights)-1]
}

// Format renders the value through its coercer.
func (b DataBundle) Format() (string, error) {
	if b.Multivalued {
		return FormatList(b.Coercer, b.Value, ", ")
	}
	return b.Coercer.Format(b.Value)
}

// FieldMetainfo declares how a producer's leaf is typed and mapped.
type FieldMetainfo struct {
	Coercer      Coercer
	Multivalued  bool
	Generic      DataURI
	MappedFields []WeightedFieldMapping
}

// Metainfo maps leaf names to their declarations.
type Metainfo map[string]FieldMetainfo

// Validate checks every declaration.
func (m Metainfo) Validate() error {
	for leaf, info := range m {
		if info.Coercer == nil {
			return fmt.Errorf("leaf %q has no coercer: %w", leaf, ErrInvalidInput)
		}
		if !info.Generic.IsZero() && !info.Generic.IsGeneric() {
			return fmt.Errorf("leaf %q generic %s: %w", leaf, info.Generic, ErrBadURI)
		}
		for _, mf := range info.MappedFields {
			if !mf.Field.IsValid() || mf.Weight < 0 || mf.Weight > 1 {
				return fmt.Errorf("leaf %q has invalid field mapping: %w", leaf, ErrInvalidInput)
			}
		}
	}
	return nil
}
