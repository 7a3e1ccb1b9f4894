package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// NameTemplateField is a placeholder that may appear in a name template.
type NameTemplateField int

// Name template fields. The enumeration is closed.
const (
	FieldAuthor NameTemplateField = iota + 1
	FieldCreator
	FieldDate
	FieldDateTime
	FieldDescription
	FieldEdition
	FieldExtension
	FieldProducer
	FieldPublisher
	FieldTags
	FieldTime
	FieldTitle
)

// Generic field groups.
const (
	GroupMetadata   = "metadata"
	GroupContents   = "contents"
	GroupFilesystem = "filesystem"
)

type fieldSpec struct {
	placeholder   string
	accepted      []Coercer
	multivalued   bool
	generic       string
	separator     string
	canonicalizer string
}

var dateCoercers = []Coercer{DateCoercer, DateTimeCoercer, TZDateTimeCoercer}

var fieldSpecs = map[NameTemplateField]fieldSpec{
	FieldAuthor: {
		placeholder: "author", accepted: []Coercer{StringCoercer},
		multivalued: true, generic: "generic.metadata.author", separator: ", ",
	},
	FieldCreator: {
		placeholder: "creator", accepted: []Coercer{StringCoercer, PathComponentCoercer},
		generic: "generic.metadata.creator", canonicalizer: "creatortool",
	},
	FieldDate: {
		placeholder: "date", accepted: dateCoercers,
		generic: "generic.metadata.date_created",
	},
	FieldDateTime: {
		placeholder: "datetime", accepted: dateCoercers,
		generic: "generic.metadata.date_created",
	},
	FieldDescription: {
		placeholder: "description", accepted: []Coercer{StringCoercer, PathComponentCoercer},
		generic: "generic.metadata.description",
	},
	FieldEdition: {
		placeholder: "edition", accepted: []Coercer{IntegerCoercer, StringCoercer},
		generic: "generic.metadata.edition",
	},
	FieldExtension: {
		placeholder: "extension", accepted: []Coercer{PathComponentCoercer, StringCoercer},
		generic: "generic.filesystem.extension",
	},
	FieldProducer: {
		placeholder: "producer", accepted: []Coercer{StringCoercer},
		generic: "generic.metadata.producer", canonicalizer: "creatortool",
	},
	FieldPublisher: {
		placeholder: "publisher", accepted: []Coercer{StringCoercer},
		generic: "generic.metadata.publisher", canonicalizer: "publisher",
	},
	FieldTags: {
		placeholder: "tags", accepted: []Coercer{StringCoercer, PathComponentCoercer},
		multivalued: true, generic: "generic.metadata.tags", separator: " ",
	},
	FieldTime: {
		placeholder: "time", accepted: []Coercer{DateTimeCoercer, TZDateTimeCoercer},
		generic: "generic.metadata.date_created",
	},
	FieldTitle: {
		placeholder: "title", accepted: []Coercer{StringCoercer, PathComponentCoercer},
		generic: "generic.metadata.title",
	},
}

// Fields returns every field in declaration order.
func Fields() []NameTemplateField {
	fields := make([]NameTemplateField, 0, len(fieldSpecs))
	for f := range fieldSpecs {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// ParseField looks up a field by its placeholder name.
func ParseField(placeholder string) (NameTemplateField, error) {
	p := strings.ToLower(strings.TrimSpace(placeholder))
	for f, spec := range fieldSpecs {
		if spec.placeholder == p {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown name template field %q: %w", placeholder, ErrInvalidInput)
}

// IsValid reports whether f is a member of the enumeration.
func (f NameTemplateField) IsValid() bool {
	_, ok := fieldSpecs[f]
	return ok
}

// Placeholder returns the lowercase placeholder name.
func (f NameTemplateField) Placeholder() string {
	return fieldSpecs[f].placeholder
}

// String returns the capitalised field name.
func (f NameTemplateField) String() string {
	switch f {
	case FieldDateTime:
		return "DateTime"
	case 0:
		return "Unknown"
	}
	p := f.Placeholder()
	if p == "" {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return strings.ToUpper(p[:1]) + p[1:]
}

// AcceptedCoercers returns the coercers whose values f accepts.
func (f NameTemplateField) AcceptedCoercers() []Coercer {
	return append([]Coercer(nil), fieldSpecs[f].accepted...)
}

// Accepts reports whether values of coercer c are usable for f.
// List coercers are compared by their element coercer.
func (f NameTemplateField) Accepts(c Coercer) bool {
	elem := ElementCoercer(c)
	for _, a := range fieldSpecs[f].accepted {
		if a == elem {
			return true
		}
	}
	return false
}

// Multivalued reports whether f takes a list of values.
func (f NameTemplateField) Multivalued() bool {
	return fieldSpecs[f].multivalued
}

// GenericURI returns the generic field consulted when no data source is bound.
func (f NameTemplateField) GenericURI() DataURI {
	return MustParseURI(fieldSpecs[f].generic)
}

// Separator joins multivalued values.
func (f NameTemplateField) Separator() string {
	if sep := fieldSpecs[f].separator; sep != "" {
		return sep
	}
	return " "
}

// CanonicalizerName names the known-value table applied to f, if any.
func (f NameTemplateField) CanonicalizerName() string {
	return fieldSpecs[f].canonicalizer
}

// FormatValue renders a typed value for substitution into a template.
// Date fields always use their own layout regardless of the value's coercer.
func (f NameTemplateField) FormatValue(c Coercer, v any) (string, error) {
	elem := ElementCoercer(c)

	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			s, err := f.FormatValue(elem, item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, f.Separator()), nil
	}

	switch f {
	case FieldDate, FieldDateTime, FieldTime:
		t, ok := v.(time.Time)
		if !ok {
			return "", formatFail(elem, v)
		}
		switch f {
		case FieldDate:
			return t.Format(DateLayout), nil
		case FieldTime:
			return t.Format(TimeLayout), nil
		}
		return t.Format(DateTimeLayout), nil
	case FieldAuthor:
		s, err := elem.Format(v)
		if err != nil {
			return "", err
		}
		return FormatAuthorName(s), nil
	case FieldEdition:
		s, err := elem.Format(v)
		if err != nil {
			return "", err
		}
		return FormatEdition(s), nil
	case FieldTitle:
		s, err := elem.Format(v)
		if err != nil {
			return "", err
		}
		return FormatTitle(s), nil
	}
	return elem.Format(v)
}

var ordinalWords = map[string]string{
	"first": "1", "second": "2", "third": "3", "fourth": "4", "fifth": "5",
	"sixth": "6", "seventh": "7", "eighth": "8", "ninth": "9", "tenth": "10",
}

var editionNumber = regexp.MustCompile(`^(\d+)(st|nd|rd|th)?$`)

// FormatEdition renders an edition as "<n>E", e.g. "2nd" and "second" as "2E".
// Unrecognised input is returned unchanged.
func FormatEdition(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(strings.TrimSuffix(s, " edition"), " ed")
	if n, ok := ordinalWords[s]; ok {
		return n + "E"
	}
	if m := editionNumber.FindStringSubmatch(s); m != nil {
		return m[1] + "E"
	}
	return s
}

// FormatAuthorName renders "Gibson Sjöberg" style full names as
// "Sjöberg G.". Names already in "Last, First" form keep their order.
func FormatAuthorName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	var last string
	var given []string
	if before, after, ok := strings.Cut(name, ","); ok {
		last = strings.TrimSpace(before)
		given = strings.Fields(after)
	} else {
		parts := strings.Fields(name)
		if len(parts) == 1 {
			return parts[0]
		}
		last = parts[len(parts)-1]
		given = parts[:len(parts)-1]
	}

	initials := make([]string, 0, len(given))
	for _, g := range given {
		r := []rune(strings.TrimSuffix(g, "."))
		if len(r) == 0 {
			continue
		}
		initials = append(initials, strings.ToUpper(string(r[0]))+".")
	}
	if len(initials) == 0 {
		return last
	}
	return last + " " + strings.Join(initials, "")
}

// FormatTitle trims surrounding punctuation and spells out ampersands.
func FormatTitle(s string) string {
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " .,;:-_")
}
