package services

import (
	"context"
	"sort"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// RuleScore is the evaluation of one rule against a file.
type RuleScore struct {
	Rule     *domain.Rule
	Score    float64
	Coverage float64
	Passed   []domain.RuleCondition
	Failed   []domain.RuleCondition
}

// MatchResult is the ordered list of surviving rules; Best is the first.
type MatchResult struct {
	Best   RuleScore
	Ranked []RuleScore
}

// RuleMatcher scores rules for files and picks the best one.
type RuleMatcher struct {
	evaluator *ConditionEvaluator
}

// NewRuleMatcher creates a matcher using evaluator.
func NewRuleMatcher(evaluator *ConditionEvaluator) *RuleMatcher {
	return &RuleMatcher{evaluator: evaluator}
}

// Match evaluates rules for fh. Exact-match rules with any failed
// condition are discarded. Survivors are ordered by score, coverage,
// ranking bias and number of data sources, all descending.
func (m *RuleMatcher) Match(ctx context.Context, fh *domain.FileHandle, rules []*domain.Rule) (*MatchResult, error) {
	survivors := make([]RuleScore, 0, len(rules))
	maxConditions := 0

	for _, rule := range rules {
		res, err := m.evaluator.Evaluate(ctx, fh, rule)
		if err != nil {
			return nil, err
		}
		n := len(rule.Conditions)
		p := len(res.Passed)
		if rule.ExactMatch && p < n {
			logger.Debug("rule %q discarded: %d/%d conditions passed", rule.Description, p, n)
			continue
		}

		score := 1.0
		if n > 0 {
			score = float64(p) / float64(n)
		}
		survivors = append(survivors, RuleScore{Rule: rule, Score: score, Passed: res.Passed, Failed: res.Failed})
		if n > maxConditions {
			maxConditions = n
		}
	}

	if len(survivors) == 0 {
		return nil, &domain.NoMatchingRuleError{Path: fh.AbsPath}
	}

	for i := range survivors {
		if maxConditions > 0 {
			survivors[i].Coverage = float64(len(survivors[i].Rule.Conditions)) / float64(maxConditions)
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return rankBefore(survivors[i], survivors[j])
	})

	for i, s := range survivors {
		logger.Debug("rule #%d %q score %.2f coverage %.2f", i+1, s.Rule.Description, s.Score, s.Coverage)
	}
	return &MatchResult{Best: survivors[0], Ranked: survivors}, nil
}

// rankBefore reports whether a orders strictly before b.
// Equal tuples fall through to the stable sort's configuration order.
func rankBefore(a, b RuleScore) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Coverage != b.Coverage {
		return a.Coverage > b.Coverage
	}
	if a.Rule.RankingBias != b.Rule.RankingBias {
		return a.Rule.RankingBias > b.Rule.RankingBias
	}
	if na, nb := a.Rule.NumDataSources(), b.Rule.NumDataSources(); na != nb {
		return na > nb
	}
	if a.Rule.ExactMatch != b.Rule.ExactMatch {
		return a.Rule.ExactMatch
	}
	return false
}
