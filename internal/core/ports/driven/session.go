package driven

import "github.com/custodia-labs/autoname-cli/internal/core/domain"

// SessionRepository stores the bundles extracted for files during a run.
// It is append-only until cleared.
type SessionRepository interface {
	// Store records a bundle for (fh, uri). Existing entries are kept.
	Store(fh *domain.FileHandle, uri domain.DataURI, bundle domain.DataBundle)

	// Get returns the bundle stored for (fh, uri).
	Get(fh *domain.FileHandle, uri domain.DataURI) (domain.DataBundle, bool)

	// All returns the bundles stored for fh in insertion order.
	All(fh *domain.FileHandle) []domain.DataBundle

	// Clear removes everything stored for fh.
	Clear(fh *domain.FileHandle)

	// ClearAll removes everything.
	ClearAll()
}
