// Package domain defines the core entities of the autoname pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DataURI: Dotted identifier of a datum or a generic field
//   - Coercer: Value type with acceptance, coercion and formatting
//   - DataBundle: An extracted value with its provenance and field mappings
//   - NameTemplateField: The closed set of template placeholders
//   - NameTemplate: A format string over placeholders
//   - Rule: A file predicate bound to a template and data sources
//   - FileHandle: Identity of one input file
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
