package services

import (
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// maxCanonicalPasses bounds the substitution loop.
const maxCanonicalPasses = 8

// Canonicalizer maps free-form strings to known canonical values.
// Tables are loaded on first use and cached by name.
type Canonicalizer struct {
	source driven.CanonicalSource

	mu     sync.Mutex
	tables map[string]*domain.CanonicalTable
}

// NewCanonicalizer creates a canonicalizer reading tables from source.
func NewCanonicalizer(source driven.CanonicalSource) *Canonicalizer {
	return &Canonicalizer{
		source: source,
		tables: make(map[string]*domain.CanonicalTable),
	}
}

// Canonicalize returns the canonical form of s for the named table.
// A string equal to a canonical value or one of its literals yields the
// canonical value. Otherwise the form whose patterns cover the most text
// has its matches replaced, repeated until the result is stable.
// Unknown tables and unmatched strings return s unchanged.
func (c *Canonicalizer) Canonicalize(table, s string) string {
	t := c.table(table)
	if t == nil || strings.TrimSpace(s) == "" {
		return s
	}

	current := s
	for i := 0; i < maxCanonicalPasses; i++ {
		next := canonicalPass(t, current)
		if next == current {
			return current
		}
		current = next
	}
	logger.Debug("canonicalizer %s did not settle on %q", table, s)
	return s
}

// IsKnown reports whether s matches any form of the named table.
func (c *Canonicalizer) IsKnown(table, s string) bool {
	t := c.table(table)
	if t == nil {
		return false
	}
	for i := range t.Forms {
		if literalMatch(&t.Forms[i], s) || patternCoverage(&t.Forms[i], s) > 0 {
			return true
		}
	}
	return false
}

// Find looks for a known value inside free text and returns the canonical
// form whose literals or patterns occur in it. When several forms match,
// the one covering the most text wins.
func (c *Canonicalizer) Find(table, text string) (string, bool) {
	t := c.table(table)
	if t == nil || strings.TrimSpace(text) == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	best, bestCoverage := "", 0
	for i := range t.Forms {
		f := &t.Forms[i]
		cov := patternCoverage(f, text)
		for _, lit := range f.Literals {
			if lit != "" && strings.Contains(lower, strings.ToLower(lit)) && len(lit) > cov {
				cov = len(lit)
			}
		}
		if cov > bestCoverage {
			best, bestCoverage = f.Canonical, cov
		}
	}
	return best, bestCoverage > 0
}

// Reset drops the cached tables.
func (c *Canonicalizer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[string]*domain.CanonicalTable)
}

func (c *Canonicalizer) table(name string) *domain.CanonicalTable {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[name]; ok {
		return t
	}
	t, err := c.source.Load(name)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("loading canonical table %s: %v", name, err)
		}
		t = nil
	}
	c.tables[name] = t
	return t
}

func canonicalPass(t *domain.CanonicalTable, s string) string {
	for i := range t.Forms {
		if literalMatch(&t.Forms[i], s) {
			return t.Forms[i].Canonical
		}
	}

	best := -1
	bestCoverage := 0
	for i := range t.Forms {
		if cov := patternCoverage(&t.Forms[i], s); cov > bestCoverage {
			best, bestCoverage = i, cov
		}
	}
	if best < 0 {
		return s
	}

	form := &t.Forms[best]
	out := s
	for _, re := range form.Patterns {
		out = re.ReplaceAllLiteralString(out, form.Canonical)
	}
	return out
}

func literalMatch(f *domain.CanonicalForm, s string) bool {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, f.Canonical) {
		return true
	}
	for _, lit := range f.Literals {
		if strings.EqualFold(trimmed, lit) {
			return true
		}
	}
	return false
}

// patternCoverage sums the lengths of all pattern matches in s.
func patternCoverage(f *domain.CanonicalForm, s string) int {
	total := 0
	for _, re := range f.Patterns {
		for _, loc := range re.FindAllStringIndex(s, -1) {
			total += loc[1] - loc[0]
		}
	}
	return total
}
