// Package exec runs external extraction tools.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 60 * time.Second

// Ensure Runner implements the interface.
var _ driven.CommandRunner = (*Runner)(nil)

// CommandError reports a tool that exited unsuccessfully.
type CommandError struct {
	Name   string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner starts processes, pacing them with a token bucket.
type Runner struct {
	limiter *rate.Limiter
	timeout time.Duration
}

// NewRunner creates a runner allowing perSecond invocations per second.
// perSecond <= 0 disables pacing; timeout <= 0 uses DefaultTimeout.
func NewRunner(perSecond int, timeout time.Duration) *Runner {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = perSecond
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{limiter: rate.NewLimiter(limit, burst), timeout: timeout}
}

// Run executes name with args and returns its stdout. On failure the
// partial stdout is returned together with a *CommandError.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	logger.Debug("exec %s %s (%s)", name, strings.Join(args, " "), time.Since(start).Round(time.Millisecond))
	if err == nil {
		return stdout.Bytes(), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, &CommandError{Name: name, Err: fmt.Errorf("timed out after %s: %w", r.timeout, ctxErr)}
		}
		return nil, ctxErr
	}
	return stdout.Bytes(), &CommandError{Name: name, Stderr: strings.TrimSpace(stderr.String()), Err: err}
}
