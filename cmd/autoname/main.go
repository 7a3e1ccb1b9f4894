// Command autoname renames files from their metadata and contents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/choice"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/disk"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/exec"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
	"github.com/custodia-labs/autoname-cli/internal/core/services"
	"github.com/custodia-labs/autoname-cli/internal/postprocessors"
	"github.com/custodia-labs/autoname-cli/internal/providers"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	store, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(store)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Settings: settingsService,
		Build: func(ctx context.Context, s cli.Session) (*cli.Runtime, error) {
			return build(ctx, settingsService, s)
		},
		OpenCache: func() (cli.CacheAdmin, error) {
			settings, err := settingsService.Get()
			if err != nil {
				return nil, err
			}
			db, err := sqlite.NewStore(settings.CacheDir)
			if err != nil {
				return nil, err
			}
			return db.Cache(), nil
		},
	})

	return cli.Execute(ctx)
}

// build assembles the naming pipeline from the current settings.
func build(_ context.Context, settingsService driving.SettingsService, s cli.Session) (*cli.Runtime, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	loader, err := file.NewRulesLoader(settings.RulesPath)
	if err != nil {
		return nil, err
	}
	canon := services.NewCanonicalizer(file.NewCanonicalSource(settings.CanonicalizerPaths...))
	runner := exec.NewRunner(settings.ToolRatePerSecond, exec.DefaultTimeout)

	var (
		cache   driven.ExtractionCache
		closers []func() error
	)
	if settings.CacheEnabled && !s.NoCache {
		db, err := sqlite.NewStore(settings.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		cache = db.Cache()
		closers = append(closers, db.Close)
	}
	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	registry := services.NewProviderRegistry(nil)
	if _, err := providers.Register(registry, providers.Options{
		Runner:     runner,
		Known:      canon,
		Settings:   *settings,
		CheckTools: true,
	}); err != nil {
		_ = closeAll()
		return nil, err
	}
	master := services.NewMasterProvider(registry, memory.NewSessionRepository(), cache)

	reg := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(reg)
	pipeline, err := postprocessors.NewFromSettings(reg, settings.PostProcessing)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("post-processing: %w", err)
	}

	var confirmer driven.RenameConfirmer
	if s.Confirm {
		confirmer = tui.NewConfirmer(tui.WithAbort(s.Abort))
	}
	var chooser driven.ChoiceHandler = choice.NewBatch()
	if s.Interactive {
		chooser = tui.NewChoiceHandler(tui.WithAbort(s.Abort))
	}

	naming := services.NewNamingService(
		disk.NewInspector(),
		master,
		services.NewRuleMatcher(services.NewConditionEvaluator(master, canon)),
		services.NewFieldResolver(master, canon, settings.MultivaluedPolicy),
		services.NewNameBuilder(pipeline),
		loader,
		disk.NewRenamer(confirmer),
		chooser,
		canon,
	)
	events := services.NewDispatcher()
	naming.Subscribe(events)

	return &cli.Runtime{
		Naming:    naming,
		Events:    events,
		RulesPath: loader.Path(),
		Close:     closeAll,
	}, nil
}
