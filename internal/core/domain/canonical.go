package domain

import "regexp"

// CanonicalForm is one preferred value and the alternatives that map to it.
type CanonicalForm struct {
	Canonical string

	// Literals match case-insensitively against the whole string.
	Literals []string

	// Patterns are matched anywhere in the string; matches are
	// substituted with Canonical.
	Patterns []*regexp.Regexp
}

// CanonicalTable holds the canonical forms of one field in file order.
type CanonicalTable struct {
	Name  string
	Forms []CanonicalForm
}
