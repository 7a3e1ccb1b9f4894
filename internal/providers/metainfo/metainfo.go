// Package metainfo decodes provider field metainfo tables from YAML.
//
// A table maps each leaf to its declaration:
//
//	basename.extension:
//	  coercer: path_component
//	  generic: generic.filesystem.extension
//	  mapped_fields:
//	    - field: extension
//	      weight: 1
package metainfo

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

type leafDoc struct {
	Coercer      string       `yaml:"coercer"`
	Multivalued  bool         `yaml:"multivalued"`
	Generic      string       `yaml:"generic"`
	MappedFields []mappingDoc `yaml:"mapped_fields"`
}

type mappingDoc struct {
	Field  string  `yaml:"field"`
	Weight float64 `yaml:"weight"`
}

// Parse decodes and validates a metainfo table.
func Parse(data []byte) (domain.Metainfo, error) {
	var doc map[string]leafDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode metainfo: %w", err)
	}

	meta := make(domain.Metainfo, len(doc))
	for leaf, ld := range doc {
		info, err := ld.toDomain()
		if err != nil {
			return nil, fmt.Errorf("leaf %q: %w", leaf, err)
		}
		meta[leaf] = info
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return meta, nil
}

// MustParse is like Parse but panics on error. Intended for embedded tables.
func MustParse(data []byte) domain.Metainfo {
	meta, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return meta
}

func (ld leafDoc) toDomain() (domain.FieldMetainfo, error) {
	c, ok := domain.CoercerByName(ld.Coercer)
	if !ok {
		return domain.FieldMetainfo{}, fmt.Errorf("unknown coercer %q: %w", ld.Coercer, domain.ErrInvalidInput)
	}
	info := domain.FieldMetainfo{Coercer: c, Multivalued: ld.Multivalued}

	if ld.Generic != "" {
		uri, err := domain.ParseURI(ld.Generic)
		if err != nil {
			return domain.FieldMetainfo{}, err
		}
		if !uri.IsGeneric() {
			return domain.FieldMetainfo{}, fmt.Errorf("generic %s: %w", uri, domain.ErrBadURI)
		}
		info.Generic = uri
	}

	for _, m := range ld.MappedFields {
		f, err := domain.ParseField(m.Field)
		if err != nil {
			return domain.FieldMetainfo{}, err
		}
		info.MappedFields = append(info.MappedFields, domain.WeightedFieldMapping{Field: f, Weight: m.Weight})
	}
	return info, nil
}
