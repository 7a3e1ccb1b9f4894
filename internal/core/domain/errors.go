package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Per-file kinds are recovered into a FileResult; configuration and
// invariant errors abort the run.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBadURI indicates a malformed data URI.
	ErrBadURI = errors.New("bad URI")

	// ErrCoercionFailed indicates a raw value could not be coerced.
	// Callers drop the candidate.
	ErrCoercionFailed = errors.New("coercion failed")

	// ErrProviderFailed indicates a producer failed to extract data.
	// The producer is retired for the current file.
	ErrProviderFailed = errors.New("provider failed")

	// ErrNoMatchingRule indicates no rule survived matching for a file.
	ErrNoMatchingRule = errors.New("no matching rule")

	// ErrAmbiguousField indicates a placeholder had tied candidates.
	ErrAmbiguousField = errors.New("ambiguous field")

	// ErrUnresolvedField indicates a placeholder had no usable candidates.
	ErrUnresolvedField = errors.New("unresolved field")

	// ErrNameTemplateSyntax indicates a template could not be rendered.
	ErrNameTemplateSyntax = errors.New("name template syntax error")

	// ErrConfig indicates invalid configuration. Fatal at startup.
	ErrConfig = errors.New("configuration error")

	// ErrSkipped indicates the user chose to skip a file.
	ErrSkipped = errors.New("skipped")

	// ErrInvariant indicates an internal invariant violation.
	ErrInvariant = errors.New("internal invariant violation")
)

// BadURIError describes a URI that failed validation.
type BadURIError struct {
	Raw    string
	Reason string
}

func (e *BadURIError) Error() string {
	return fmt.Sprintf("bad URI %q: %s", e.Raw, e.Reason)
}

func (e *BadURIError) Unwrap() error { return ErrBadURI }

// CoercionError describes a raw value a coercer refused.
type CoercionError struct {
	Coercer string
	Value   any
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coerce %T %v as %s", e.Value, e.Value, e.Coercer)
}

func (e *CoercionError) Unwrap() error { return ErrCoercionFailed }

// ProviderError wraps a failure raised by a producer.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() []error { return []error{ErrProviderFailed, e.Err} }

// NoMatchingRuleError reports the file no rule could be applied to.
type NoMatchingRuleError struct {
	Path string
}

func (e *NoMatchingRuleError) Error() string {
	return fmt.Sprintf("no rule matches %s", e.Path)
}

func (e *NoMatchingRuleError) Unwrap() error { return ErrNoMatchingRule }

// AmbiguousFieldError names the placeholder whose candidates tied.
type AmbiguousFieldError struct {
	Field      NameTemplateField
	Candidates int
}

func (e *AmbiguousFieldError) Error() string {
	return fmt.Sprintf("ambiguous field %s: %d candidates tie", e.Field, e.Candidates)
}

func (e *AmbiguousFieldError) Unwrap() error { return ErrAmbiguousField }

// UnresolvedFieldError names the placeholder that had no usable data.
type UnresolvedFieldError struct {
	Field NameTemplateField
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("no data for field %s", e.Field)
}

func (e *UnresolvedFieldError) Unwrap() error { return ErrUnresolvedField }

// TemplateError describes a template that could not be parsed or rendered.
type TemplateError struct {
	Template string
	Reason   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("name template %q: %s", e.Template, e.Reason)
}

func (e *TemplateError) Unwrap() error { return ErrNameTemplateSyntax }

// ConfigError wraps a configuration problem with its origin.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error { return []error{ErrConfig, e.Err} }
