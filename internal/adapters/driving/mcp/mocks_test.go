package mcp

import (
	"context"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
)

// Ensure mockNamingService implements the interface.
var _ driving.NamingService = (*mockNamingService)(nil)

// mockNamingService is a mock implementation of driving.NamingService.
type mockNamingService struct {
	result    domain.FileResult
	bundles   []domain.DataBundle
	rules     *domain.RuleSet
	loadRules *domain.RuleSet
	err       error
	reloads   int
	proposed  []string
}

func (m *mockNamingService) Run(
	_ context.Context,
	_ []string,
	_ domain.RunOptions,
) (*domain.RunReport, error) {
	return &domain.RunReport{}, m.err
}

func (m *mockNamingService) Propose(_ context.Context, path string, _ domain.RunOptions) domain.FileResult {
	m.proposed = append(m.proposed, path)
	res := m.result
	res.Path = path
	return res
}

func (m *mockNamingService) Inspect(_ context.Context, _ string) ([]domain.DataBundle, error) {
	return m.bundles, m.err
}

func (m *mockNamingService) Rules() *domain.RuleSet {
	return m.rules
}

func (m *mockNamingService) Reload(_ context.Context) error {
	m.reloads++
	if m.err != nil {
		return m.err
	}
	m.rules = m.loadRules
	return nil
}
