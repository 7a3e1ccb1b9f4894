package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockProvider implements driven.Provider with canned output.
type mockProvider struct {
	name      string
	prefix    string
	meta      domain.Metainfo
	raw       map[string]any
	err       error
	canHandle func(fh *domain.FileHandle) bool
	content   bool

	mu       sync.Mutex
	calls    int
	shutdown int
}

func (m *mockProvider) Name() string              { return m.name }
func (m *mockProvider) URIPrefix() domain.DataURI { return domain.MustParseURI(m.prefix) }
func (m *mockProvider) Metainfo() domain.Metainfo { return m.meta }

func (m *mockProvider) ContentDerived() bool { return m.content }

func (m *mockProvider) CanHandle(fh *domain.FileHandle) bool {
	if m.canHandle == nil {
		return true
	}
	return m.canHandle(fh)
}

func (m *mockProvider) Extract(_ context.Context, _ *domain.FileHandle) (map[string]any, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]any, len(m.raw))
	for k, v := range m.raw {
		out[k] = v
	}
	return out, nil
}

func (m *mockProvider) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown++
	return nil
}

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// factory returns a factory that always hands out m.
func (m *mockProvider) factory() driven.ProviderFactory {
	return func() (driven.Provider, error) { return m, nil }
}

func leaf(c domain.Coercer, generic string, mapped ...domain.WeightedFieldMapping) domain.FieldMetainfo {
	info := domain.FieldMetainfo{Coercer: c, MappedFields: mapped}
	if generic != "" {
		info.Generic = domain.MustParseURI(generic)
	}
	return info
}

func listLeaf(c domain.Coercer, generic string, mapped ...domain.WeightedFieldMapping) domain.FieldMetainfo {
	info := leaf(c, generic, mapped...)
	info.Multivalued = true
	return info
}

func weight(f domain.NameTemplateField, w float64) domain.WeightedFieldMapping {
	return domain.WeightedFieldMapping{Field: f, Weight: w}
}

// mockCache implements driven.ExtractionCache.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]map[string]any
	gets    int
	getErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]map[string]any)}
}

func (c *mockCache) Get(_ context.Context, hash, provider string) (map[string]any, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	raw, ok := c.entries[hash+"/"+provider]
	return raw, ok, nil
}

func (c *mockCache) Put(_ context.Context, hash, provider string, raw map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash+"/"+provider] = raw
	return nil
}

func (c *mockCache) Purge(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]any)
	return nil
}

func (c *mockCache) Close() error { return nil }

// mockCanonicalSource implements driven.CanonicalSource.
type mockCanonicalSource struct {
	tables map[string]*domain.CanonicalTable
	loads  int
}

func (s *mockCanonicalSource) Load(name string) (*domain.CanonicalTable, error) {
	s.loads++
	t, ok := s.tables[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// mockChoiceHandler implements driven.ChoiceHandler.
type mockChoiceHandler struct {
	pick  int
	err   error
	seen  [][]domain.DataBundle
	calls int
}

func (h *mockChoiceHandler) Choose(_ context.Context, _ *domain.FileHandle, _ domain.NameTemplateField,
	candidates []domain.DataBundle) (*domain.DataBundle, error) {
	h.calls++
	h.seen = append(h.seen, candidates)
	if h.err != nil {
		return nil, h.err
	}
	if h.pick < 0 || h.pick >= len(candidates) {
		return nil, nil
	}
	c := candidates[h.pick]
	return &c, nil
}

// mockRenamer implements driven.RenameHandler.
type mockRenamer struct {
	outcome domain.RenameOutcome
	err     error
	renamed map[string]string
}

func newMockRenamer() *mockRenamer {
	return &mockRenamer{outcome: domain.RenameDone, renamed: make(map[string]string)}
}

func (r *mockRenamer) Rename(_ context.Context, fh *domain.FileHandle, newBasename string) (domain.RenameOutcome, error) {
	if r.err != nil {
		return domain.RenameIOFailure, r.err
	}
	r.renamed[fh.AbsPath] = newBasename
	return r.outcome, nil
}

// mockInspector implements driven.FileInspector from a fixed table.
type mockInspector struct {
	files map[string]*domain.FileHandle
}

func (i *mockInspector) Inspect(path string) (*domain.FileHandle, error) {
	fh, ok := i.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return fh, nil
}

func (i *mockInspector) Collect(path string, _ bool) ([]string, error) {
	return []string{path}, nil
}

// mockRulesLoader implements driven.RulesLoader.
type mockRulesLoader struct {
	rules *domain.RuleSet
	err   error
	loads int
}

func (l *mockRulesLoader) Load(_ context.Context) (*domain.RuleSet, error) {
	l.loads++
	if l.err != nil {
		return nil, l.err
	}
	return l.rules, nil
}

func (l *mockRulesLoader) Path() string { return "rules.yaml" }

// mockPipeline implements driven.PostProcessorPipeline.
type mockPipeline struct {
	fn func(string) (string, error)
}

func (p mockPipeline) Process(name string) (string, error) {
	if p.fn == nil {
		return name, nil
	}
	return p.fn(name)
}

// Ensure mocks implement interfaces
var (
	_ driven.Provider              = (*mockProvider)(nil)
	_ driven.Shutdowner            = (*mockProvider)(nil)
	_ driven.ExtractionCache       = (*mockCache)(nil)
	_ driven.CanonicalSource       = (*mockCanonicalSource)(nil)
	_ driven.ChoiceHandler         = (*mockChoiceHandler)(nil)
	_ driven.RenameHandler         = (*mockRenamer)(nil)
	_ driven.FileInspector         = (*mockInspector)(nil)
	_ driven.RulesLoader           = (*mockRulesLoader)(nil)
	_ driven.PostProcessorPipeline = mockPipeline{}
)
