package domain

import (
	"fmt"
	"strings"
)

// DefaultRankingBias is used when a rule does not set one.
const DefaultRankingBias = 0.5

// RuleCondition tests the datum at URI against Expression.
type RuleCondition struct {
	URI        DataURI
	Expression string
}

func (c RuleCondition) String() string {
	return fmt.Sprintf("%s: %s", c.URI, c.Expression)
}

// DataSource binds a template field to the URIs consulted for it,
// in configuration order.
type DataSource struct {
	Field NameTemplateField
	URIs  []DataURI
}

// Rule identifies a class of files and how to name them.
type Rule struct {
	Description  string
	ExactMatch   bool
	RankingBias  float64
	TemplateName string
	Template     NameTemplate
	Conditions   []RuleCondition
	DataSources  []DataSource
}

// Validate checks the rule invariants.
func (r *Rule) Validate() error {
	if r.RankingBias < 0 || r.RankingBias > 1 {
		return fmt.Errorf("rule %q: ranking bias %v outside [0,1]: %w", r.Description, r.RankingBias, ErrInvalidInput)
	}
	if strings.TrimSpace(r.Template.Format) == "" {
		return fmt.Errorf("rule %q: no name template: %w", r.Description, ErrInvalidInput)
	}
	for _, c := range r.Conditions {
		if c.URI.IsZero() {
			return fmt.Errorf("rule %q: condition without URI: %w", r.Description, ErrBadURI)
		}
	}
	for _, ds := range r.DataSources {
		if !ds.Field.IsValid() {
			return fmt.Errorf("rule %q: invalid data source field: %w", r.Description, ErrInvalidInput)
		}
	}
	return nil
}

// SourcesFor returns the URIs bound to f.
func (r *Rule) SourcesFor(f NameTemplateField) []DataURI {
	for _, ds := range r.DataSources {
		if ds.Field == f {
			return ds.URIs
		}
	}
	return nil
}

// NumDataSources counts the fields with at least one bound URI.
func (r *Rule) NumDataSources() int {
	n := 0
	for _, ds := range r.DataSources {
		if len(ds.URIs) > 0 {
			n++
		}
	}
	return n
}

func (r *Rule) String() string {
	return r.Description
}

// RuleSet is the resolved rule configuration.
type RuleSet struct {
	Templates map[string]NameTemplate
	Rules     []*Rule
}
