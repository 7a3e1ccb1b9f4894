package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// extractionState tracks which providers have run for one file.
type extractionState struct {
	done    map[string]bool
	retired map[string]bool
}

// MasterProvider answers data queries for files, running each provider at
// most once per file and storing the results in the session repository.
// A provider that fails is retired for the rest of that file.
type MasterProvider struct {
	registry *ProviderRegistry
	repo     driven.SessionRepository
	cache    driven.ExtractionCache

	mu    sync.Mutex
	state map[string]*extractionState
}

// NewMasterProvider creates a master provider. cache may be nil.
func NewMasterProvider(registry *ProviderRegistry, repo driven.SessionRepository, cache driven.ExtractionCache) *MasterProvider {
	return &MasterProvider{
		registry: registry,
		repo:     repo,
		cache:    cache,
		state:    make(map[string]*extractionState),
	}
}

// Registry returns the provider registry.
func (m *MasterProvider) Registry() *ProviderRegistry {
	return m.registry
}

// Query returns the bundle at uri for fh, or nil when no provider yields it.
// For a generic URI the first available concrete candidate is returned.
// Only context cancellation is reported as an error.
func (m *MasterProvider) Query(ctx context.Context, fh *domain.FileHandle, uri domain.DataURI) (*domain.DataBundle, error) {
	if !uri.IsGeneric() {
		return m.queryConcrete(ctx, fh, uri)
	}
	for _, candidate := range m.registry.Candidates(uri) {
		b, err := m.queryConcrete(ctx, fh, candidate)
		if err != nil {
			return nil, err
		}
		if b != nil {
			return b, nil
		}
	}
	return nil, nil
}

// QueryAll returns every bundle available for uri in candidate order.
// A concrete URI yields at most one bundle.
func (m *MasterProvider) QueryAll(ctx context.Context, fh *domain.FileHandle, uri domain.DataURI) ([]domain.DataBundle, error) {
	candidates := []domain.DataURI{uri}
	if uri.IsGeneric() {
		candidates = m.registry.Candidates(uri)
	}

	var out []domain.DataBundle
	for _, candidate := range candidates {
		b, err := m.queryConcrete(ctx, fh, candidate)
		if err != nil {
			return nil, err
		}
		if b != nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ExtractAll runs every applicable provider and returns all stored bundles.
func (m *MasterProvider) ExtractAll(ctx context.Context, fh *domain.FileHandle) ([]domain.DataBundle, error) {
	for _, info := range m.registry.Providers() {
		if err := m.ensureExtracted(ctx, fh, info.Name); err != nil {
			return nil, err
		}
	}
	return m.repo.All(fh), nil
}

// Forget drops everything known about fh.
func (m *MasterProvider) Forget(fh *domain.FileHandle) {
	m.mu.Lock()
	delete(m.state, stateKey(fh))
	m.mu.Unlock()
	m.repo.Clear(fh)
}

// Reset drops everything known about every file.
func (m *MasterProvider) Reset() {
	m.mu.Lock()
	m.state = make(map[string]*extractionState)
	m.mu.Unlock()
	m.repo.ClearAll()
}

func (m *MasterProvider) queryConcrete(ctx context.Context, fh *domain.FileHandle, uri domain.DataURI) (*domain.DataBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b, ok := m.repo.Get(fh, uri); ok {
		return &b, nil
	}

	owner, ok := m.registry.Owner(uri)
	if !ok {
		logger.Debug("no provider owns %s", uri)
		return nil, nil
	}
	if err := m.ensureExtracted(ctx, fh, owner); err != nil {
		return nil, err
	}
	if b, ok := m.repo.Get(fh, uri); ok {
		return &b, nil
	}
	return nil, nil
}

// ensureExtracted runs provider name for fh unless it already ran or was retired.
func (m *MasterProvider) ensureExtracted(ctx context.Context, fh *domain.FileHandle, name string) error {
	st := m.stateFor(fh)

	m.mu.Lock()
	if st.done[name] || st.retired[name] {
		m.mu.Unlock()
		return nil
	}
	st.done[name] = true
	m.mu.Unlock()

	info, ok := m.registry.Info(name)
	if !ok {
		return nil
	}
	provider, err := m.registry.Instance(name)
	if err != nil {
		m.retire(fh, name, err)
		return nil
	}
	if !provider.CanHandle(fh) {
		logger.Debug("%s cannot handle %s", name, fh.AbsPath)
		return nil
	}

	raw, err := m.extract(ctx, fh, provider)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.mu.Lock()
			delete(st.done, name)
			m.mu.Unlock()
			return ctxErr
		}
		m.retire(fh, name, err)
		return nil
	}

	bundles := WrapRaw(info, raw)
	for _, b := range bundles {
		m.repo.Store(fh, b.URI, b)
	}
	logger.Debug("%s produced %d bundles for %s", name, len(bundles), fh.Basename)
	return nil
}

func (m *MasterProvider) extract(ctx context.Context, fh *domain.FileHandle, p driven.Provider) (map[string]any, error) {
	name := p.Name()
	cacheable := m.cacheable(fh, p)
	if cacheable {
		raw, ok, err := m.cache.Get(ctx, fh.Hash, name)
		switch {
		case err != nil:
			logger.Warn("extraction cache read for %s: %v", name, err)
		case ok:
			logger.Debug("cache hit for %s on %s", name, fh.Basename)
			return raw, nil
		}
	}

	raw, err := p.Extract(ctx, fh)
	if err != nil {
		return nil, &domain.ProviderError{Provider: name, Err: err}
	}

	if cacheable {
		if err := m.cache.Put(ctx, fh.Hash, name, raw); err != nil {
			logger.Warn("extraction cache write for %s: %v", name, err)
		}
	}
	return raw, nil
}

// cacheable reports whether p's output for fh may be read from and written
// to the cache. Output derived from the path or timestamps is never cached
// since the cache is keyed by content.
func (m *MasterProvider) cacheable(fh *domain.FileHandle, p driven.Provider) bool {
	if m.cache == nil || fh.Hash == "" {
		return false
	}
	c, ok := p.(driven.ContentProvider)
	return ok && c.ContentDerived()
}

func (m *MasterProvider) retire(fh *domain.FileHandle, name string, err error) {
	st := m.stateFor(fh)
	m.mu.Lock()
	st.retired[name] = true
	m.mu.Unlock()

	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		err = &domain.ProviderError{Provider: name, Err: err}
	}
	logger.Warn("%s retired for %s: %v", name, fh.Basename, err)
}

func (m *MasterProvider) stateFor(fh *domain.FileHandle) *extractionState {
	key := stateKey(fh)
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.state[key]
	if !ok {
		st = &extractionState{done: make(map[string]bool), retired: make(map[string]bool)}
		m.state[key] = st
	}
	return st
}

// Retired reports whether name was retired for fh.
func (m *MasterProvider) Retired(fh *domain.FileHandle, name string) bool {
	st := m.stateFor(fh)
	m.mu.Lock()
	defer m.mu.Unlock()
	return st.retired[name]
}

// stateKey identifies a file by path and content; files with equal
// content at different paths yield different filesystem data.
func stateKey(fh *domain.FileHandle) string {
	return fmt.Sprintf("%s|%s", fh.AbsPath, fh.Hash)
}
