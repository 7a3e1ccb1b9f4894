package driven

import (
	"context"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

// Provider supplies data for files. Metadata readers, text extractors and
// analyzers all implement it. Providers must be idempotent per file.
type Provider interface {
	// Name returns the producer identifier recorded as bundle source.
	Name() string

	// URIPrefix returns the URI all of this provider's leaves live under.
	URIPrefix() domain.DataURI

	// CanHandle reports whether the provider applies to the file.
	// Must not fail.
	CanHandle(fh *domain.FileHandle) bool

	// Metainfo declares every leaf the provider may return.
	Metainfo() domain.Metainfo

	// Extract returns raw values keyed by leaf name.
	Extract(ctx context.Context, fh *domain.FileHandle) (map[string]any, error)
}

// Shutdowner is implemented by providers holding resources.
type Shutdowner interface {
	Shutdown() error
}

// ContentProvider is implemented by providers whose output depends only
// on file content. Only their results are kept in the extraction cache.
type ContentProvider interface {
	ContentDerived() bool
}

// ProviderFactory creates a provider instance.
type ProviderFactory func() (Provider, error)

// ProviderPool hands out provider instances by name.
// Embedders processing files in parallel may supply a per-goroutine pool.
type ProviderPool interface {
	// Add registers the factory used to create instances of name.
	Add(name string, factory ProviderFactory)

	// Get returns the instance for name, creating it on first use.
	Get(name string) (Provider, error)

	// Drain shuts down and forgets every created instance.
	Drain() error
}
