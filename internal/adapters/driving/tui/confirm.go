package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

// Ensure Confirmer implements the interface.
var _ driven.RenameConfirmer = (*Confirmer)(nil)

// Confirmer asks before each rename.
type Confirmer struct {
	prompter
}

// NewConfirmer creates an interactive rename confirmer.
func NewConfirmer(opts ...Option) *Confirmer {
	return &Confirmer{prompter: newPrompter(opts)}
}

// Confirm shows the delta and reports whether to rename.
func (c *Confirmer) Confirm(ctx context.Context, delta domain.FilenameDelta) (bool, error) {
	final, err := c.run(ctx, NewConfirm(c.styles, c.keymap, delta))
	if err != nil {
		return false, err
	}

	answer := final.(*Confirm)
	if answer.Aborted() {
		return false, c.aborted()
	}
	return answer.Accepted(), nil
}

// Confirm is the rename confirmation model.
type Confirm struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	bar      *status.Bar
	delta    domain.FilenameDelta
	accepted bool
	aborted  bool
}

// Ensure Confirm implements tea.Model.
var _ tea.Model = (*Confirm)(nil)

// NewConfirm creates a confirmation prompt for delta.
func NewConfirm(s *styles.Styles, km *keymap.KeyMap, delta domain.FilenameDelta) *Confirm {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Confirm{
		styles: s,
		keymap: km,
		bar:    status.NewBar(s, km.ConfirmHelp()),
		delta:  delta,
	}
}

// Init implements tea.Model.
func (c *Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c *Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.bar.SetWidth(msg.Width)

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, c.keymap.Quit):
			c.aborted = true
			return c, tea.Quit
		case keymap.Matches(k, c.keymap.Yes):
			c.accepted = true
			return c, tea.Quit
		case keymap.Matches(k, c.keymap.No):
			c.accepted = false
			return c, tea.Quit
		}
	}
	return c, nil
}

// View implements tea.Model.
func (c *Confirm) View() string {
	prefix, oldMiddle, newMiddle, suffix := c.delta.Span()
	old := "- " + prefix + c.styles.Removed.Render(oldMiddle) + suffix
	renamed := "+ " + prefix + c.styles.Added.Render(newMiddle) + suffix

	return c.styles.Title.Render("Rename?") + "\n" +
		c.styles.Border.Render(old+"\n"+renamed) + "\n" +
		c.bar.View() + "\n"
}

// Accepted reports whether the user agreed to the rename.
func (c *Confirm) Accepted() bool {
	return c.accepted
}

// Aborted reports whether the user quit the run.
func (c *Confirm) Aborted() bool {
	return c.aborted
}
