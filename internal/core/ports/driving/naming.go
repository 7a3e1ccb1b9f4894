package driving

import (
	"context"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

// NamingService proposes and applies new names for files.
type NamingService interface {
	// Run processes every path in order. Per-file failures are recorded in
	// the report; only configuration errors and cancellation return an error.
	Run(ctx context.Context, paths []string, opts domain.RunOptions) (*domain.RunReport, error)

	// Propose computes the new name for a single file without renaming it.
	Propose(ctx context.Context, path string, opts domain.RunOptions) domain.FileResult

	// Inspect returns every datum the registered providers produce for path.
	Inspect(ctx context.Context, path string) ([]domain.DataBundle, error)

	// Rules returns the loaded rule configuration.
	Rules() *domain.RuleSet

	// Reload re-reads the rule configuration.
	Reload(ctx context.Context) error
}
