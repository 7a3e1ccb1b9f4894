package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// Ensure ChoiceHandler implements the interface.
var _ driven.ChoiceHandler = (*ChoiceHandler)(nil)

// ChoiceHandler asks the user to pick between tied candidates.
type ChoiceHandler struct {
	prompter
}

// NewChoiceHandler creates an interactive choice handler.
func NewChoiceHandler(opts ...Option) *ChoiceHandler {
	return &ChoiceHandler{prompter: newPrompter(opts)}
}

// Choose shows the candidates and returns the one picked, or nil when
// the user skips the file.
func (h *ChoiceHandler) Choose(ctx context.Context, fh *domain.FileHandle, field domain.NameTemplateField,
	candidates []domain.DataBundle) (*domain.DataBundle, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	m := NewPicker(h.styles, h.keymap, fh.Basename, field, Candidates(field, candidates))
	final, err := h.run(ctx, m)
	if err != nil {
		return nil, err
	}

	picked := final.(*Picker)
	switch {
	case picked.Aborted():
		return nil, h.aborted()
	case picked.Choice() < 0:
		logger.Debug("%s: skipped at %s prompt", fh.Basename, field)
		return nil, nil
	}
	chosen := candidates[picked.Choice()]
	return &chosen, nil
}

// Candidates renders bundles for display.
func Candidates(field domain.NameTemplateField, bundles []domain.DataBundle) []list.Candidate {
	items := make([]list.Candidate, 0, len(bundles))
	for _, b := range bundles {
		value, err := field.FormatValue(b.Coercer, b.Value)
		if err != nil {
			value = fmt.Sprint(b.Value)
		}
		items = append(items, list.Candidate{
			Value:  value,
			Source: b.Source + " " + b.URI.String(),
			Weight: b.WeightFor(field),
		})
	}
	return items
}

// Picker is the candidate selection model.
type Picker struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	list    *list.CandidateList
	bar     *status.Bar
	title   string
	choice  int
	aborted bool
}

// Ensure Picker implements tea.Model.
var _ tea.Model = (*Picker)(nil)

// NewPicker creates a picker for field of the named file.
func NewPicker(s *styles.Styles, km *keymap.KeyMap, basename string, field domain.NameTemplateField,
	items []list.Candidate) *Picker {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	l := list.NewCandidateList(s)
	l.SetItems(items)
	bar := status.NewBar(s, km.PickerHelp())
	bar.SetMessage(fmt.Sprintf("%d candidates", len(items)))

	return &Picker{
		styles: s,
		keymap: km,
		list:   l,
		bar:    bar,
		title:  fmt.Sprintf("%s: which %s?", basename, field.Placeholder()),
		choice: -1,
	}
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetDimensions(msg.Width-4, msg.Height-6)
		p.bar.SetWidth(msg.Width)
		return p, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, p.keymap.Quit):
			p.aborted = true
			return p, tea.Quit
		case keymap.Matches(k, p.keymap.Skip):
			p.choice = -1
			return p, tea.Quit
		case keymap.Matches(k, p.keymap.Select):
			if p.list.IsEmpty() {
				p.bar.SetWarning("nothing to select")
				return p, nil
			}
			p.choice = p.list.Selected()
			return p, tea.Quit
		case len(k) == 1 && k[0] >= '1' && k[0] <= '9':
			i := int(k[0] - '1')
			if i < p.list.Count() {
				p.list.SetSelected(i)
				p.choice = i
				return p, tea.Quit
			}
			return p, nil
		}
		var cmd tea.Cmd
		p.list, cmd = p.list.Update(msg)
		return p, cmd
	}
	return p, nil
}

// View implements tea.Model.
func (p *Picker) View() string {
	return p.styles.Title.Render(p.title) + "\n" +
		p.styles.Border.Render(p.list.View()) + "\n" +
		p.bar.View() + "\n"
}

// Choice returns the picked index, or -1 when the file was skipped.
func (p *Picker) Choice() int {
	return p.choice
}

// Aborted reports whether the user quit the run.
func (p *Picker) Aborted() bool {
	return p.aborted
}
