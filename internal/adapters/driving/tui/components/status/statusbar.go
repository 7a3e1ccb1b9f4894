// Package status provides the footer shown under the prompts.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/tui/styles"
)

// Bar displays a progress message and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	bindings []key.Binding
	message  string
	warning  bool
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, bindings []key.Binding) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Bar{
		styles:   s,
		bindings: bindings,
		width:    80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

func (s *Bar) renderLeft() string {
	if s.message == "" {
		return ""
	}
	if s.warning {
		return s.styles.Warning.Render(s.message)
	}
	return s.styles.Muted.Render(s.message)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetMessage sets the message on the left.
func (s *Bar) SetMessage(message string) {
	s.message = message
	s.warning = false
}

// SetWarning sets a highlighted message on the left.
func (s *Bar) SetWarning(message string) {
	s.message = message
	s.warning = true
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear removes the message.
func (s *Bar) Clear() {
	s.message = ""
	s.warning = false
}
