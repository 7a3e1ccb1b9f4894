package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
)

// mockNamingService is a mock implementation of driving.NamingService.
type mockNamingService struct {
	report   *domain.RunReport
	bundles  []domain.DataBundle
	rules    *domain.RuleSet
	err      error
	runPaths []string
	runOpts  domain.RunOptions
}

func (m *mockNamingService) Run(_ context.Context, paths []string, opts domain.RunOptions) (*domain.RunReport, error) {
	m.runPaths = paths
	m.runOpts = opts
	return m.report, m.err
}

func (m *mockNamingService) Propose(_ context.Context, path string, _ domain.RunOptions) domain.FileResult {
	return domain.FileResult{Path: path, Kind: domain.ResultUnchanged}
}

func (m *mockNamingService) Inspect(_ context.Context, _ string) ([]domain.DataBundle, error) {
	return m.bundles, m.err
}

func (m *mockNamingService) Rules() *domain.RuleSet {
	return m.rules
}

func (m *mockNamingService) Reload(_ context.Context) error {
	return nil
}

// mockEvents records dispatched events.
type mockEvents struct {
	dispatched []driving.Event
	errs       map[driving.Event]error
}

func (m *mockEvents) Subscribe(driving.Event, string, driving.EventHandler) {}

func (m *mockEvents) Dispatch(_ context.Context, event driving.Event) error {
	m.dispatched = append(m.dispatched, event)
	return m.errs[event]
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	set      map[string]string
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.Settings) error {
	m.settings = *s
	return m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// mockCache is a mock implementation of CacheAdmin.
type mockCache struct {
	path   string
	count  int
	pruned int64
	purged bool
	cutoff time.Time
	closed bool
}

func (m *mockCache) Path() string { return m.path }

func (m *mockCache) Count(context.Context) (int, error) { return m.count, nil }

func (m *mockCache) Purge(context.Context) error {
	m.purged = true
	return nil
}

func (m *mockCache) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	return m.pruned, nil
}

func (m *mockCache) Close() error {
	m.closed = true
	return nil
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	naming   *mockNamingService
	events   *mockEvents
	settings *mockSettingsService
	cache    *mockCache
	sessions []Session
	closed   int
}

// setupTestServices installs mocks and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		naming:   &mockNamingService{report: &domain.RunReport{}},
		events:   &mockEvents{},
		settings: &mockSettingsService{settings: domain.DefaultSettings()},
		cache:    &mockCache{path: "/tmp/autoname-test/extractions.db"},
	}

	oldSettings, oldBuild, oldCache, oldTerminal := settingsService, buildRuntime, openCache, stdinIsTerminal
	SetServices(Services{
		Settings: ts.settings,
		Build: func(_ context.Context, s Session) (*Runtime, error) {
			ts.sessions = append(ts.sessions, s)
			return &Runtime{
				Naming:    ts.naming,
				Events:    ts.events,
				RulesPath: "/home/test/.autoname/rules.yaml",
				Close: func() error {
					ts.closed++
					return nil
				},
			}, nil
		},
		OpenCache: func() (CacheAdmin, error) { return ts.cache, nil },
	})
	stdinIsTerminal = func() bool { return false }

	return ts, func() {
		settingsService, buildRuntime, openCache, stdinIsTerminal = oldSettings, oldBuild, oldCache, oldTerminal
	}
}

// resetFlags restores flag variables between command runs.
func resetFlags() {
	renameDryRun, renameConfirm, renameInteractive = false, false, false
	renameRecursive, renameNoCache, renameJSON = false, false, false
	inspectRaw, inspectJSON, inspectNoCache = false, false, false
	rulesInitForce = false
	cachePruneOlderThan = 30 * 24 * time.Hour
	verbose = false
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	return executeCommandWithInput("", args...)
}

// executeCommandWithInput is executeCommand with input on stdin.
func executeCommandWithInput(input string, args ...string) (string, error) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

var errTest = errors.New("test error")
