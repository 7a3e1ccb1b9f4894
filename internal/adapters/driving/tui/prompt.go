// Package tui provides the interactive prompts used while renaming:
// a picker for tied candidates and a rename confirmation.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/styles"
)

// Option configures a prompt.
type Option func(*prompter)

// WithInput reads keys from r instead of stdin.
func WithInput(r io.Reader) Option {
	return func(p *prompter) { p.input = r }
}

// WithOutput renders to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(p *prompter) { p.output = w }
}

// WithAbort sets the function called when the user aborts the run.
func WithAbort(abort func()) Option {
	return func(p *prompter) { p.abort = abort }
}

// WithStyles overrides the default styles.
func WithStyles(s *styles.Styles) Option {
	return func(p *prompter) { p.styles = s }
}

// prompter runs one bubbletea program per question.
type prompter struct {
	input  io.Reader
	output io.Writer
	abort  func()
	styles *styles.Styles
	keymap *keymap.KeyMap
}

func newPrompter(opts []Option) prompter {
	p := prompter{
		input:  os.Stdin,
		output: os.Stderr,
		styles: styles.DefaultStyles(),
		keymap: keymap.DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// run shows m until it quits and returns the final model.
func (p *prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	if f, ok := p.input.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return nil, ErrNotTerminal
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog := tea.NewProgram(m,
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
		tea.WithContext(ctx),
	)
	final, err := prog.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}

// aborted calls the abort hook and returns the error prompts report
// once the user gives up on the run.
func (p *prompter) aborted() error {
	if p.abort != nil {
		p.abort()
	}
	return fmt.Errorf("%w: %w", ErrAborted, context.Canceled)
}
