package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// ProviderInfo describes a registered provider.
type ProviderInfo struct {
	Name     string
	Prefix   domain.DataURI
	Priority int
	Metainfo domain.Metainfo
}

type registeredProvider struct {
	ProviderInfo
	order int
}

// ProviderRegistry routes data URIs to the providers that own them.
// Generic URIs resolve to the concrete URIs tagged with them, ordered by
// provider priority (higher first) and then registration order.
type ProviderRegistry struct {
	mu        sync.RWMutex
	pool      driven.ProviderPool
	providers []*registeredProvider
	byName    map[string]*registeredProvider
	leafOwner map[domain.DataURI]string
	generic   map[domain.DataURI][]domain.DataURI
}

// NewProviderRegistry creates a registry backed by pool.
// A nil pool uses a new InstancePool.
func NewProviderRegistry(pool driven.ProviderPool) *ProviderRegistry {
	if pool == nil {
		pool = NewInstancePool()
	}
	return &ProviderRegistry{
		pool:      pool,
		byName:    make(map[string]*registeredProvider),
		leafOwner: make(map[domain.DataURI]string),
		generic:   make(map[domain.DataURI][]domain.DataURI),
	}
}

// Register adds a provider class. A throwaway instance is created to read
// the provider's name, prefix and metainfo; malformed metainfo is fatal.
func (r *ProviderRegistry) Register(factory driven.ProviderFactory, priority int) error {
	inst, err := factory()
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer shutdownQuietly(inst)

	name := inst.Name()
	prefix := inst.URIPrefix()
	meta := inst.Metainfo()

	if name == "" {
		return fmt.Errorf("provider without name: %w", domain.ErrInvariant)
	}
	if prefix.IsZero() || prefix.IsGeneric() {
		return fmt.Errorf("provider %s: prefix %q: %w", name, prefix, domain.ErrBadURI)
	}
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("provider %s metainfo: %w", name, err)
	}

	leaves := make(map[domain.DataURI]string, len(meta))
	for leaf := range meta {
		uri, err := prefix.JoinLeaf(leaf)
		if err != nil {
			return fmt.Errorf("provider %s leaf %q: %w", name, leaf, err)
		}
		leaves[uri] = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("provider %s registered twice: %w", name, domain.ErrInvariant)
	}
	for uri := range leaves {
		if owner, taken := r.leafOwner[uri]; taken {
			return fmt.Errorf("provider %s: %s already owned by %s: %w", name, uri, owner, domain.ErrInvariant)
		}
	}

	rp := &registeredProvider{
		ProviderInfo: ProviderInfo{Name: name, Prefix: prefix, Priority: priority, Metainfo: meta},
		order:        len(r.providers),
	}
	r.providers = append(r.providers, rp)
	r.byName[name] = rp
	for uri, owner := range leaves {
		r.leafOwner[uri] = owner
	}
	r.pool.Add(name, factory)
	r.rebuildGenericIndex()

	logger.Debug("registered provider %s (%s) priority %d with %d leaves", name, prefix, priority, len(meta))
	return nil
}

// SetPriority overrides the priority of a registered provider.
func (r *ProviderRegistry) SetPriority(name string, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rp, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("provider %s: %w", name, domain.ErrNotFound)
	}
	rp.Priority = priority
	r.rebuildGenericIndex()
	return nil
}

// rebuildGenericIndex recomputes the generic candidate lists (caller must hold lock).
func (r *ProviderRegistry) rebuildGenericIndex() {
	ordered := append([]*registeredProvider(nil), r.providers...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	r.generic = make(map[domain.DataURI][]domain.DataURI)
	for _, rp := range ordered {
		for _, leaf := range sortedLeaves(rp.Metainfo) {
			info := rp.Metainfo[leaf]
			if info.Generic.IsZero() {
				continue
			}
			uri, err := rp.Prefix.JoinLeaf(leaf)
			if err != nil {
				continue
			}
			r.generic[info.Generic] = append(r.generic[info.Generic], uri)
		}
	}
}

// Owner returns the provider that owns a concrete URI.
func (r *ProviderRegistry) Owner(uri domain.DataURI) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.leafOwner[uri]
	return name, ok
}

// Candidates returns the concrete URIs for a generic URI in priority order.
func (r *ProviderRegistry) Candidates(generic domain.DataURI) []domain.DataURI {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.DataURI(nil), r.generic[generic]...)
}

// Info returns the registration of name.
func (r *ProviderRegistry) Info(name string) (ProviderInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rp, ok := r.byName[name]
	if !ok {
		return ProviderInfo{}, false
	}
	return rp.ProviderInfo, true
}

// Priority returns the priority of name, or 0 when unknown.
func (r *ProviderRegistry) Priority(name string) int {
	info, _ := r.Info(name)
	return info.Priority
}

// Providers returns every registration in registration order.
func (r *ProviderRegistry) Providers() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProviderInfo, len(r.providers))
	for i, rp := range r.providers {
		out[i] = rp.ProviderInfo
	}
	return out
}

// Instance returns the pooled instance of name.
func (r *ProviderRegistry) Instance(name string) (driven.Provider, error) {
	return r.pool.Get(name)
}

// Shutdown drains the provider pool.
func (r *ProviderRegistry) Shutdown() error {
	return r.pool.Drain()
}

func sortedLeaves(meta domain.Metainfo) []string {
	leaves := make([]string, 0, len(meta))
	for leaf := range meta {
		leaves = append(leaves, leaf)
	}
	sort.Strings(leaves)
	return leaves
}

func shutdownQuietly(p driven.Provider) {
	if s, ok := p.(driven.Shutdowner); ok {
		if err := s.Shutdown(); err != nil {
			logger.Warn("shutting down %s: %v", p.Name(), err)
		}
	}
}
