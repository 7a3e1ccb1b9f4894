package domain

import (
	"fmt"
	"strings"
)

// Replacement is a user-configured regex substitution applied to names.
type Replacement struct {
	Pattern     string
	Replacement string
}

// PostProcessing configures the textual clean-up of rendered names.
type PostProcessing struct {
	SanitizeFilename bool
	SanitizeStrict   bool
	Lowercase        bool
	Uppercase        bool
	Replacements     []Replacement
}

// DefaultPostProcessing returns the post-processing defaults.
func DefaultPostProcessing() PostProcessing {
	return PostProcessing{SanitizeFilename: true}
}

// MultivaluedPolicy decides how a list is used for a single-valued field.
type MultivaluedPolicy string

// Multivalued policies.
const (
	// MultivaluedDrop discards lists with more than one element.
	MultivaluedDrop MultivaluedPolicy = "drop"

	// MultivaluedFirst keeps the first element.
	MultivaluedFirst MultivaluedPolicy = "first"

	// MultivaluedJoin joins the elements with the field separator.
	MultivaluedJoin MultivaluedPolicy = "join"
)

// IsValid returns true if the policy is recognised.
func (p MultivaluedPolicy) IsValid() bool {
	switch p {
	case MultivaluedDrop, MultivaluedFirst, MultivaluedJoin:
		return true
	default:
		return false
	}
}

// ParseMultivaluedPolicy parses a policy name; empty means drop.
func ParseMultivaluedPolicy(s string) (MultivaluedPolicy, error) {
	if s == "" {
		return MultivaluedDrop, nil
	}
	p := MultivaluedPolicy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("multivalued policy %q: %w", s, ErrInvalidInput)
	}
	return p, nil
}

// Settings holds the application settings.
type Settings struct {
	PostProcessing     PostProcessing
	RulesPath          string
	CanonicalizerPaths []string
	CacheEnabled       bool
	CacheDir           string
	ExiftoolPath       string
	PdftotextPath      string
	ToolRatePerSecond  int
	MultivaluedPolicy  MultivaluedPolicy
	ProviderPriority   map[string]int
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		PostProcessing:    DefaultPostProcessing(),
		CacheEnabled:      true,
		ExiftoolPath:      "exiftool",
		PdftotextPath:     "pdftotext",
		ToolRatePerSecond: 20,
		MultivaluedPolicy: MultivaluedDrop,
		ProviderPriority:  map[string]int{},
	}
}

// RunOptions controls a naming run.
type RunOptions struct {
	// Interactive resolves tied candidates through the choice handler.
	Interactive bool

	// DryRun reports deltas without renaming.
	DryRun bool

	// Recursive descends into directories.
	Recursive bool
}
