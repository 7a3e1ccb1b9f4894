package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// comparisonPattern parses numeric and date comparisons such as ">= 2".
var comparisonPattern = regexp.MustCompile(`^(<=|>=|==|=|<|>)?\s*(.+)$`)

// Querier answers data queries for files.
type Querier interface {
	Query(ctx context.Context, fh *domain.FileHandle, uri domain.DataURI) (*domain.DataBundle, error)
}

// ConditionResult lists the conditions of one rule that passed and failed.
type ConditionResult struct {
	Passed []domain.RuleCondition
	Failed []domain.RuleCondition
}

// ConditionEvaluator evaluates rule conditions against a file's data.
// Conditions that cannot be evaluated count as failed.
type ConditionEvaluator struct {
	querier       Querier
	canonicalizer *Canonicalizer

	mu      sync.Mutex
	regexes map[string]*regexp.Regexp
}

// NewConditionEvaluator creates an evaluator. canonicalizer may be nil,
// in which case "known:" expressions always fail.
func NewConditionEvaluator(querier Querier, canonicalizer *Canonicalizer) *ConditionEvaluator {
	return &ConditionEvaluator{
		querier:       querier,
		canonicalizer: canonicalizer,
		regexes:       make(map[string]*regexp.Regexp),
	}
}

// Evaluate checks every condition of rule for fh.
// Only cancellation is returned as an error.
func (e *ConditionEvaluator) Evaluate(ctx context.Context, fh *domain.FileHandle, rule *domain.Rule) (ConditionResult, error) {
	var res ConditionResult
	for _, cond := range rule.Conditions {
		ok, err := e.EvaluateCondition(ctx, fh, cond)
		if err != nil {
			return ConditionResult{}, err
		}
		if ok {
			res.Passed = append(res.Passed, cond)
		} else {
			res.Failed = append(res.Failed, cond)
		}
	}
	return res, nil
}

// EvaluateCondition checks a single condition.
func (e *ConditionEvaluator) EvaluateCondition(ctx context.Context, fh *domain.FileHandle, cond domain.RuleCondition) (bool, error) {
	b, err := e.querier.Query(ctx, fh, cond.URI)
	if err != nil {
		return false, err
	}
	if b == nil {
		logger.Debug("condition %s: no data", cond)
		return false, nil
	}

	expr := strings.TrimSpace(cond.Expression)
	if expr == "" || expr == "*" {
		return true, nil
	}

	values := []any{b.Value}
	if list, ok := b.Value.([]any); ok {
		values = list
	}
	for _, v := range values {
		ok, err := e.match(b.Coercer, expr, v)
		if err != nil {
			logger.Debug("condition %s: %v", cond, err)
			return false, nil
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (e *ConditionEvaluator) match(c domain.Coercer, expr string, v any) (bool, error) {
	if table, ok := strings.CutPrefix(expr, domain.KnownPrefix); ok {
		if e.canonicalizer == nil {
			return false, nil
		}
		s, err := c.Format(v)
		if err != nil {
			return false, err
		}
		return e.canonicalizer.IsKnown(strings.TrimSpace(table), s), nil
	}

	switch c {
	case domain.PathCoercer, domain.PathComponentCoercer:
		return e.matchGlob(c, expr, v, false)
	case domain.MIMETypeCoercer:
		return e.matchGlob(c, expr, v, true)
	case domain.IntegerCoercer, domain.FloatCoercer:
		return matchNumber(expr, v)
	case domain.DateCoercer, domain.DateTimeCoercer, domain.TZDateTimeCoercer:
		return matchTime(c, expr, v)
	case domain.BooleanCoercer:
		want, err := c.Coerce(expr)
		if err != nil {
			return false, err
		}
		return want == v, nil
	default:
		s, err := c.Format(v)
		if err != nil {
			return false, err
		}
		re, err := e.compile(domain.AnchorRegexp(expr), true)
		if err != nil {
			return false, err
		}
		return re.MatchString(s), nil
	}
}

func (e *ConditionEvaluator) matchGlob(c domain.Coercer, expr string, v any, foldCase bool) (bool, error) {
	s, err := c.Format(v)
	if err != nil {
		return false, err
	}
	re, err := e.compile(domain.GlobToRegexp(expr), foldCase)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// compile caches compiled expressions.
func (e *ConditionEvaluator) compile(expr string, foldCase bool) (*regexp.Regexp, error) {
	if foldCase {
		expr = "(?i)" + expr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.regexes[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, domain.ErrInvalidInput)
	}
	e.regexes[expr] = re
	return re, nil
}

func parseComparison(expr string) (op, rhs string, err error) {
	m := comparisonPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return "", "", fmt.Errorf("invalid comparison %q: %w", expr, domain.ErrInvalidInput)
	}
	op = m[1]
	if op == "" || op == "==" {
		op = "="
	}
	return op, strings.TrimSpace(m[2]), nil
}

func compare(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return cmp == 0
	}
}

func matchNumber(expr string, v any) (bool, error) {
	op, rhs, err := parseComparison(expr)
	if err != nil {
		return false, err
	}
	want, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, fmt.Errorf("invalid number %q: %w", rhs, domain.ErrInvalidInput)
	}

	var got float64
	switch n := v.(type) {
	case int64:
		got = float64(n)
	case float64:
		got = n
	default:
		return false, fmt.Errorf("not a number: %v: %w", v, domain.ErrInvalidInput)
	}

	switch {
	case got < want:
		return compare(op, -1), nil
	case got > want:
		return compare(op, 1), nil
	default:
		return compare(op, 0), nil
	}
}

func matchTime(c domain.Coercer, expr string, v any) (bool, error) {
	op, rhs, err := parseComparison(expr)
	if err != nil {
		return false, err
	}
	got, ok := v.(time.Time)
	if !ok {
		return false, fmt.Errorf("not a time: %v: %w", v, domain.ErrInvalidInput)
	}
	coerced, err := c.Coerce(rhs)
	if err != nil {
		return false, err
	}
	want := coerced.(time.Time)
	return compare(op, got.Compare(want)), nil
}
