package driven

import "github.com/custodia-labs/autoname-cli/internal/core/domain"

// CanonicalSource loads known-value tables by name.
type CanonicalSource interface {
	// Load returns the table for name, or domain.ErrNotFound.
	Load(name string) (*domain.CanonicalTable, error)
}
