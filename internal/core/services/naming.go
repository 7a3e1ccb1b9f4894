package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// Ensure NamingService implements the interface.
var _ driving.NamingService = (*NamingService)(nil)

// NamingService runs files through inspection, rule matching, field
// resolution, name building and renaming.
type NamingService struct {
	inspector     driven.FileInspector
	master        *MasterProvider
	matcher       *RuleMatcher
	resolver      *FieldResolver
	builder       *NameBuilder
	loader        driven.RulesLoader
	renamer       driven.RenameHandler
	choice        driven.ChoiceHandler
	canonicalizer *Canonicalizer

	mu    sync.RWMutex
	rules *domain.RuleSet
}

// NewNamingService creates a naming service.
// The choice handler is only consulted for interactive runs and may be nil.
// The canonicalizer is reset on configuration changes and may be nil.
func NewNamingService(
	inspector driven.FileInspector,
	master *MasterProvider,
	matcher *RuleMatcher,
	resolver *FieldResolver,
	builder *NameBuilder,
	loader driven.RulesLoader,
	renamer driven.RenameHandler,
	choice driven.ChoiceHandler,
	canonicalizer *Canonicalizer,
) *NamingService {
	return &NamingService{
		inspector:     inspector,
		master:        master,
		matcher:       matcher,
		resolver:      resolver,
		builder:       builder,
		loader:        loader,
		renamer:       renamer,
		choice:        choice,
		canonicalizer: canonicalizer,
	}
}

// Subscribe registers the service's lifecycle handlers.
func (s *NamingService) Subscribe(d driving.EventDispatcher) {
	d.Subscribe(driving.EventStartup, "naming.load_rules", func(ctx context.Context, _ driving.Event) error {
		return s.Reload(ctx)
	})
	d.Subscribe(driving.EventConfigChanged, "naming.reload", func(ctx context.Context, _ driving.Event) error {
		if s.canonicalizer != nil {
			s.canonicalizer.Reset()
		}
		return s.Reload(ctx)
	})
	d.Subscribe(driving.EventShutdown, "naming.shutdown", func(_ context.Context, _ driving.Event) error {
		s.master.Reset()
		return s.master.Registry().Shutdown()
	})
}

// Rules returns the loaded rule configuration, or nil before the first load.
func (s *NamingService) Rules() *domain.RuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

// Reload re-reads the rule configuration. On failure the previous
// configuration stays in effect.
func (s *NamingService) Reload(ctx context.Context) error {
	rs, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	if rs == nil || len(rs.Rules) == 0 {
		return &domain.ConfigError{Path: s.loader.Path(), Err: errors.New("no rules defined")}
	}
	for _, r := range rs.Rules {
		if err := r.Validate(); err != nil {
			return &domain.ConfigError{Path: s.loader.Path(), Err: err}
		}
	}

	s.mu.Lock()
	s.rules = rs
	s.mu.Unlock()
	logger.Info("loaded %d rules from %s", len(rs.Rules), s.loader.Path())
	return nil
}

// Run processes every path in order.
func (s *NamingService) Run(ctx context.Context, paths []string, opts domain.RunOptions) (*domain.RunReport, error) {
	report := &domain.RunReport{ID: uuid.New().String(), StartedAt: time.Now()}
	defer func() { report.FinishedAt = time.Now() }()

	if err := s.ensureRules(ctx); err != nil {
		return report, err
	}

	for _, path := range paths {
		files, err := s.inspector.Collect(path, opts.Recursive)
		if err != nil {
			report.Add(failed(domain.FileResult{Path: path, ProcessedAt: time.Now()}, err))
			continue
		}
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				report.Cancelled = true
				return report, err
			}
			res, err := s.process(ctx, file, opts)
			if err != nil {
				report.Cancelled = true
				return report, err
			}
			report.Add(res)
		}
	}
	return report, nil
}

// Propose computes the new name for path without renaming it.
func (s *NamingService) Propose(ctx context.Context, path string, opts domain.RunOptions) domain.FileResult {
	if err := s.ensureRules(ctx); err != nil {
		return failed(domain.FileResult{Path: path, ProcessedAt: time.Now()}, err)
	}
	opts.DryRun = true
	res, err := s.process(ctx, path, opts)
	if err != nil {
		return failed(domain.FileResult{Path: path, ProcessedAt: time.Now()}, err)
	}
	return res
}

// Inspect returns every datum the registered providers produce for path.
func (s *NamingService) Inspect(ctx context.Context, path string) ([]domain.DataBundle, error) {
	fh, err := s.inspector.Inspect(path)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", path, err)
	}
	defer s.master.Forget(fh)
	return s.master.ExtractAll(ctx, fh)
}

func (s *NamingService) ensureRules(ctx context.Context) error {
	if s.Rules() != nil {
		return nil
	}
	return s.Reload(ctx)
}

// process handles one file. Only cancellation is returned as an error;
// everything else is recorded in the result.
func (s *NamingService) process(ctx context.Context, path string,
	opts domain.RunOptions) (res domain.FileResult, err error) {
	res = domain.FileResult{Path: path}
	defer func() { res.ProcessedAt = time.Now() }()

	fh, err := s.inspector.Inspect(path)
	if err != nil {
		return failed(res, err), nil
	}
	defer s.master.Forget(fh)

	match, err := s.matcher.Match(ctx, fh, s.Rules().Rules)
	if err != nil {
		return classify(ctx, res, err)
	}
	rule := match.Best.Rule
	res.Rule = rule.Description
	res.Score = match.Best.Score
	res.Coverage = match.Best.Coverage
	logger.Debug("%s: rule %q score=%.3f coverage=%.3f", fh.Basename, rule.Description, res.Score, res.Coverage)

	values, err := s.resolver.Resolve(ctx, fh, rule, ResolveOptions{Interactive: opts.Interactive, Choice: s.choice})
	if err != nil {
		return classify(ctx, res, err)
	}

	name, err := s.builder.Build(rule.Template, values)
	if err != nil {
		return classify(ctx, res, err)
	}

	delta := domain.FilenameDelta{OldPath: fh.AbsPath, NewBasename: name}
	res.Delta = &delta
	switch {
	case delta.Unchanged():
		res.Kind = domain.ResultUnchanged
		return res, nil
	case opts.DryRun:
		res.Kind = domain.ResultWouldRename
		return res, nil
	}

	outcome, err := s.renamer.Rename(ctx, fh, name)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Kind = domain.ResultFailed
		res.Reason = string(outcome)
		res.Err = err
		return res, nil
	}
	switch outcome {
	case domain.RenameDone:
		res.Kind = domain.ResultRenamed
	case domain.RenameDeclined:
		res.Kind = domain.ResultSkipped
		res.Reason = "declined"
	default:
		res.Kind = domain.ResultFailed
		res.Reason = string(outcome)
	}
	return res, nil
}

// classify turns a per-file error into a result. Cancellation is passed through.
func classify(ctx context.Context, res domain.FileResult, err error) (domain.FileResult, error) {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return res, err
	}
	switch {
	case errors.Is(err, domain.ErrNoMatchingRule),
		errors.Is(err, domain.ErrAmbiguousField),
		errors.Is(err, domain.ErrSkipped):
		res.Kind = domain.ResultSkipped
		res.Reason = err.Error()
		res.Err = err
		return res, nil
	default:
		return failed(res, err), nil
	}
}

func failed(res domain.FileResult, err error) domain.FileResult {
	res.Kind = domain.ResultFailed
	res.Reason = err.Error()
	res.Err = err
	if res.ProcessedAt.IsZero() {
		res.ProcessedAt = time.Now()
	}
	return res
}
