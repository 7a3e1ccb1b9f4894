// Package list provides list display components for the prompts.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/styles"
)

// Candidate is one value offered for a placeholder.
type Candidate struct {
	// Value is the formatted value as it would appear in the name.
	Value string

	// Source names the producer and URI it came from.
	Source string

	Weight float64
}

// CandidateList displays candidates in a navigable list.
type CandidateList struct {
	items    []Candidate
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewCandidateList creates a new candidate list component.
func NewCandidateList(s *styles.Styles) *CandidateList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CandidateList{
		styles: s,
		width:  80,
		height: 12,
	}
}

// Init initialises the list.
func (l *CandidateList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *CandidateList) Update(msg tea.Msg) (*CandidateList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		default:
		}
		switch msg.String() {
		case "k":
			l.MoveUp()
		case "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *CandidateList) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("No candidates")
	}

	// Each candidate takes two lines.
	visible := l.height / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, &l.items[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *CandidateList) renderItem(index int, c *Candidate) string {
	maxLen := l.width - 6
	if maxLen < 10 {
		maxLen = 10
	}
	value := truncate.StringWithTail(c.Value, uint(maxLen), "...")
	source := truncate.StringWithTail(c.Source, uint(maxLen), "...")

	var first string
	if index == l.selected {
		first = l.styles.Selected.Render(fmt.Sprintf("> %d. %s", index+1, value))
	} else {
		first = l.styles.Normal.Render(fmt.Sprintf("  %d. %s", index+1, value))
	}
	second := l.styles.Muted.Render(fmt.Sprintf("     %s (%.2f)", source, c.Weight))
	return first + "\n" + second
}

// SetItems replaces the candidates and resets the selection.
func (l *CandidateList) SetItems(items []Candidate) {
	l.items = items
	l.selected = 0
}

// Items returns the current candidates.
func (l *CandidateList) Items() []Candidate {
	return l.items
}

// Selected returns the index of the selected candidate.
func (l *CandidateList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *CandidateList) SetSelected(index int) {
	if index >= 0 && index < len(l.items) {
		l.selected = index
	}
}

// SelectedItem returns the selected candidate, or nil if none.
func (l *CandidateList) SelectedItem() *Candidate {
	if len(l.items) == 0 {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *CandidateList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *CandidateList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *CandidateList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of candidates.
func (l *CandidateList) Count() int {
	return len(l.items)
}

// IsEmpty returns whether the list is empty.
func (l *CandidateList) IsEmpty() bool {
	return len(l.items) == 0
}
