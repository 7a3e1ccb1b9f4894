package domain

import (
	"regexp"
	"strings"
)

// URI roots.
const (
	RootExtractor = "extractor"
	RootAnalyzer  = "analyzer"
	RootGeneric   = "generic"
)

const uriSeparator = "."

var uriPartPattern = regexp.MustCompile(`^[A-Za-z0-9_:-]+$`)

// DataURI identifies a datum produced for a file, or a producer-independent
// generic field. The zero value is the empty URI and is never valid.
type DataURI struct {
	raw string
}

// ParseURI parses a dotted URI string such as
// "extractor.metadata.exiftool.PDF:CreateDate".
func ParseURI(s string) (DataURI, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DataURI{}, &BadURIError{Raw: s, Reason: "empty"}
	}
	return NewURI(strings.Split(s, uriSeparator)...)
}

// NewURI builds a URI from its parts.
func NewURI(parts ...string) (DataURI, error) {
	raw := strings.Join(parts, uriSeparator)
	if len(parts) < 2 {
		return DataURI{}, &BadURIError{Raw: raw, Reason: "expected a root and at least one part"}
	}

	switch parts[0] {
	case RootExtractor, RootAnalyzer:
	case RootGeneric:
		if len(parts) != 3 {
			return DataURI{}, &BadURIError{Raw: raw, Reason: "generic URIs have exactly three parts"}
		}
	default:
		return DataURI{}, &BadURIError{Raw: raw, Reason: "unknown root " + quote(parts[0])}
	}

	for _, part := range parts {
		if part == "" {
			return DataURI{}, &BadURIError{Raw: raw, Reason: "empty part"}
		}
		if !uriPartPattern.MatchString(part) {
			return DataURI{}, &BadURIError{Raw: raw, Reason: "illegal characters in " + quote(part)}
		}
	}

	return DataURI{raw: raw}, nil
}

// MustParseURI is like ParseURI but panics on error.
// Intended for static tables.
func MustParseURI(s string) DataURI {
	uri, err := ParseURI(s)
	if err != nil {
		panic(err)
	}
	return uri
}

// String returns the dotted form.
func (u DataURI) String() string {
	return u.raw
}

// IsZero reports whether u is the empty URI.
func (u DataURI) IsZero() bool {
	return u.raw == ""
}

// Parts returns the URI components.
func (u DataURI) Parts() []string {
	if u.raw == "" {
		return nil
	}
	return strings.Split(u.raw, uriSeparator)
}

// Root returns the first component.
func (u DataURI) Root() string {
	root, _, _ := strings.Cut(u.raw, uriSeparator)
	return root
}

// Leaf returns the last component.
func (u DataURI) Leaf() string {
	if i := strings.LastIndex(u.raw, uriSeparator); i >= 0 {
		return u.raw[i+1:]
	}
	return u.raw
}

// IsGeneric reports whether u addresses a generic field.
func (u DataURI) IsGeneric() bool {
	return u.Root() == RootGeneric
}

// Equal reports whether both URIs are identical.
func (u DataURI) Equal(other DataURI) bool {
	return u.raw == other.raw
}

// HasPrefix reports whether prefix equals u or is an ancestor of u.
// Containment is evaluated on whole parts.
func (u DataURI) HasPrefix(prefix DataURI) bool {
	if prefix.raw == "" {
		return false
	}
	if u.raw == prefix.raw {
		return true
	}
	return strings.HasPrefix(u.raw, prefix.raw+uriSeparator)
}

// Join appends leaf parts to u.
func (u DataURI) Join(leaf ...string) (DataURI, error) {
	return NewURI(append(u.Parts(), leaf...)...)
}

// JoinLeaf appends a dotted leaf name such as "basename.extension" to u.
func (u DataURI) JoinLeaf(leaf string) (DataURI, error) {
	return u.Join(strings.Split(leaf, uriSeparator)...)
}

func quote(s string) string {
	return `"` + s + `"`
}
