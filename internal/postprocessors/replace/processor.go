// Package replace applies user-configured regex substitutions to names.
package replace

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// backrefPattern finds "\1" style group references.
var backrefPattern = regexp.MustCompile(`\\(\d+)`)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Processor applies replacements, longest pattern first.
type Processor struct {
	rules []rule
}

// New compiles the replacements. Invalid patterns are reported as
// configuration errors.
func New(replacements []domain.Replacement) (*Processor, error) {
	ordered := append([]domain.Replacement(nil), replacements...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Pattern) > len(ordered[j].Pattern)
	})

	p := &Processor{rules: make([]rule, 0, len(ordered))}
	for _, r := range ordered {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, &domain.ConfigError{Err: fmt.Errorf("replacement %q: %w", r.Pattern, err)}
		}
		p.rules = append(p.rules, rule{
			pattern:     re,
			replacement: backrefPattern.ReplaceAllString(r.Replacement, "$${$1}"),
		})
	}
	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "replacements"
}

// Process applies every replacement in order.
func (p *Processor) Process(name string) (string, error) {
	for _, r := range p.rules {
		next := r.pattern.ReplaceAllString(name, r.replacement)
		if next != name {
			logger.Debug("replacement %q: %q -> %q", r.pattern, name, next)
		}
		name = next
	}
	return name, nil
}

// Len returns the number of replacements.
func (p *Processor) Len() int {
	return len(p.rules)
}
