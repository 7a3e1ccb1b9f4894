package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/postprocessors/replace"
	"github.com/custodia-labs/autoname-cli/internal/postprocessors/sanitize"
	"github.com/custodia-labs/autoname-cli/internal/postprocessors/textclean"
)

// Processor names, in pipeline order.
const (
	NameQuotes       = "quotes"
	NameZeroWidth    = "zero_width"
	NameReplacements = "replacements"
	NameSanitize     = "sanitize"
	NameCase         = "case"
	NameWhitespace   = "whitespace"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(NameQuotes, func(map[string]any) (driven.PostProcessor, error) { return textclean.Quotes{}, nil })
	r.Register(NameZeroWidth, func(map[string]any) (driven.PostProcessor, error) { return textclean.ZeroWidth{}, nil })
	r.Register(NameReplacements, buildReplacements)
	r.Register(NameSanitize, buildSanitize)
	r.Register(NameCase, buildCase)
	r.Register(NameWhitespace, func(map[string]any) (driven.PostProcessor, error) { return textclean.Whitespace{}, nil })
}

// NewFromSettings builds the name pipeline for pp in its fixed order.
// Disabled steps are left out.
func NewFromSettings(r *Registry, pp domain.PostProcessing) (*Pipeline, error) {
	type step struct {
		name    string
		enabled bool
		cfg     map[string]any
	}
	steps := []step{
		{NameQuotes, true, nil},
		{NameZeroWidth, true, nil},
		{NameReplacements, len(pp.Replacements) > 0, map[string]any{"replacements": pp.Replacements}},
		{NameSanitize, pp.SanitizeFilename || pp.SanitizeStrict, map[string]any{"strict": pp.SanitizeStrict}},
		{NameCase, pp.Lowercase || pp.Uppercase, map[string]any{"lowercase": pp.Lowercase, "uppercase": pp.Uppercase}},
		{NameWhitespace, true, nil},
	}

	pipeline := NewPipeline()
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		proc, err := r.Build(s.name, s.cfg)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", s.name, err)
		}
		pipeline.Add(proc)
	}
	return pipeline, nil
}

// buildReplacements creates the replacement processor.
// Supported config keys:
//   - replacements ([]domain.Replacement): ordered by pattern length at build time
func buildReplacements(cfg map[string]any) (driven.PostProcessor, error) {
	rs, _ := cfg["replacements"].([]domain.Replacement)
	return replace.New(rs)
}

// buildSanitize creates the filename sanitizer.
// Supported config keys:
//   - strict (bool): portable ASCII subset without trailing dots
func buildSanitize(cfg map[string]any) (driven.PostProcessor, error) {
	if getBoolFromConfig(cfg, "strict") {
		return sanitize.New(sanitize.WithStrict()), nil
	}
	return sanitize.New(), nil
}

// buildCase creates the casing processor.
// Supported config keys:
//   - lowercase (bool): takes precedence over uppercase
//   - uppercase (bool)
func buildCase(cfg map[string]any) (driven.PostProcessor, error) {
	return textclean.NewCasing(getBoolFromConfig(cfg, "lowercase"), getBoolFromConfig(cfg, "uppercase")), nil
}

// getBoolFromConfig safely extracts a bool from generic config map.
// Handles bool and the strings "true"/"false" that may come from flags.
func getBoolFromConfig(cfg map[string]any, key string) bool {
	val, ok := cfg[key]
	if !ok {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
