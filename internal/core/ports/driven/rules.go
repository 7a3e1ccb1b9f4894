package driven

import (
	"context"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

// RulesLoader supplies the resolved rule configuration.
// Failures are reported as *domain.ConfigError.
type RulesLoader interface {
	Load(ctx context.Context) (*domain.RuleSet, error)

	// Path returns the file the rules are read from.
	Path() string
}
