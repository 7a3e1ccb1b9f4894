package driven

import "context"

// ExtractionCache persists raw provider output keyed by content hash.
type ExtractionCache interface {
	// Get returns the cached raw values for (hash, provider).
	Get(ctx context.Context, hash, provider string) (map[string]any, bool, error)

	// Put stores raw values for (hash, provider), replacing earlier ones.
	Put(ctx context.Context, hash, provider string, raw map[string]any) error

	// Purge removes all entries.
	Purge(ctx context.Context) error

	// Close releases resources.
	Close() error
}
