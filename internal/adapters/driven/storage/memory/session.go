package memory

import (
	"sync"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

// Ensure SessionRepository implements the interface.
var _ driven.SessionRepository = (*SessionRepository)(nil)

type fileData struct {
	bundles map[domain.DataURI]domain.DataBundle
	order   []domain.DataURI
}

// SessionRepository is the in-memory store of extracted bundles.
// Files are keyed by path and content hash.
type SessionRepository struct {
	mu    sync.RWMutex
	files map[string]*fileData
}

// NewSessionRepository creates an empty session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{files: make(map[string]*fileData)}
}

func fileKey(fh *domain.FileHandle) string {
	return fh.AbsPath + "|" + fh.Hash
}

// Store records bundle for (fh, uri). The first stored bundle wins.
func (r *SessionRepository) Store(fh *domain.FileHandle, uri domain.DataURI, bundle domain.DataBundle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fileKey(fh)
	fd, ok := r.files[key]
	if !ok {
		fd = &fileData{bundles: make(map[domain.DataURI]domain.DataBundle)}
		r.files[key] = fd
	}
	if _, exists := fd.bundles[uri]; exists {
		return
	}
	fd.bundles[uri] = bundle
	fd.order = append(fd.order, uri)
}

// Get returns the bundle stored for (fh, uri).
func (r *SessionRepository) Get(fh *domain.FileHandle, uri domain.DataURI) (domain.DataBundle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fd, ok := r.files[fileKey(fh)]
	if !ok {
		return domain.DataBundle{}, false
	}
	b, ok := fd.bundles[uri]
	return b, ok
}

// All returns every bundle stored for fh in insertion order.
func (r *SessionRepository) All(fh *domain.FileHandle) []domain.DataBundle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fd, ok := r.files[fileKey(fh)]
	if !ok {
		return nil
	}
	out := make([]domain.DataBundle, 0, len(fd.order))
	for _, uri := range fd.order {
		out = append(out, fd.bundles[uri])
	}
	return out
}

// Clear removes everything stored for fh.
func (r *SessionRepository) Clear(fh *domain.FileHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, fileKey(fh))
}

// ClearAll removes everything.
func (r *SessionRepository) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = make(map[string]*fileData)
}

// Len returns the number of files with stored data.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}
