package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// Session carries the per-invocation choices that change how the
// naming pipeline is assembled.
type Session struct {
	// NoCache bypasses the persistent extraction cache.
	NoCache bool

	// Confirm asks before each rename.
	Confirm bool

	// Interactive resolves tied candidates through a picker.
	Interactive bool

	// Abort cancels the run when the user quits a prompt.
	Abort func()
}

// Runtime is an assembled naming pipeline.
type Runtime struct {
	Naming driving.NamingService
	Events driving.EventDispatcher

	// RulesPath is the rules file the pipeline loads.
	RulesPath string

	// Close releases resources such as the cache database.
	Close func() error
}

// BuildFunc assembles a runtime for a session.
type BuildFunc func(ctx context.Context, s Session) (*Runtime, error)

// CacheAdmin manages the persistent extraction cache.
type CacheAdmin interface {
	Path() string
	Count(ctx context.Context) (int, error)
	Purge(ctx context.Context) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// stdinIsTerminal reports whether prompts can be shown.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// startRuntime builds a runtime and fires the startup event, which loads
// the rules. The returned stop function fires shutdown and releases it.
func startRuntime(ctx context.Context, s Session) (*Runtime, func(), error) {
	if buildRuntime == nil {
		return nil, nil, errors.New("naming service not configured")
	}

	rt, err := buildRuntime(ctx, s)
	if err != nil {
		return nil, nil, fmt.Errorf("initialising: %w", err)
	}

	stop := func() {
		stopCtx := context.WithoutCancel(ctx)
		if rt.Events != nil {
			if err := rt.Events.Dispatch(stopCtx, driving.EventShutdown); err != nil {
				logger.Warn("shutdown: %v", err)
			}
		}
		if rt.Close != nil {
			if err := rt.Close(); err != nil {
				logger.Warn("close: %v", err)
			}
		}
	}

	if rt.Events != nil {
		if err := rt.Events.Dispatch(ctx, driving.EventStartup); err != nil {
			stop()
			return nil, nil, err
		}
	}
	return rt, stop, nil
}
