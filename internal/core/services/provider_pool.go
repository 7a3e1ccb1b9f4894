package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

// Ensure InstancePool implements the interface.
var _ driven.ProviderPool = (*InstancePool)(nil)

// InstancePool lazily creates one provider instance per name.
type InstancePool struct {
	mu        sync.Mutex
	factories map[string]driven.ProviderFactory
	instances map[string]driven.Provider
	order     []string
}

// NewInstancePool creates an empty pool.
func NewInstancePool() *InstancePool {
	return &InstancePool{
		factories: make(map[string]driven.ProviderFactory),
		instances: make(map[string]driven.Provider),
	}
}

// Add registers the factory for name.
func (p *InstancePool) Add(name string, factory driven.ProviderFactory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.factories[name] = factory
}

// Get returns the instance for name, creating it on first use.
func (p *InstancePool) Get(name string) (driven.Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if inst, ok := p.instances[name]; ok {
		return inst, nil
	}
	factory, ok := p.factories[name]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", name, domain.ErrNotFound)
	}
	inst, err := factory()
	if err != nil {
		return nil, fmt.Errorf("creating provider %s: %w", name, err)
	}
	p.instances[name] = inst
	p.order = append(p.order, name)
	return inst, nil
}

// Drain shuts down every created instance in creation order.
func (p *InstancePool) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, name := range p.order {
		if s, ok := p.instances[name].(driven.Shutdowner); ok {
			if err := s.Shutdown(); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", name, err))
			}
		}
	}
	p.instances = make(map[string]driven.Provider)
	p.order = nil
	return errors.Join(errs...)
}
