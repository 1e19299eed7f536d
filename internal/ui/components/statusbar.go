// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows the conversation state, the active project, and key
// hints at the bottom of the screen.
type StatusBar struct {
	theme *styles.Theme
	width int

	projectName string
	state       conversation.State
	serverDown  bool
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, state: conversation.StateIdle}
}

// SetWidth updates the rendered width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetProject records the project shown on the left.
func (s *StatusBar) SetProject(name string) {
	s.projectName = name
}

// SetState records the conversation state.
func (s *StatusBar) SetState(state conversation.State) {
	s.state = state
}

// SetServerDown flags the connection indicator.
func (s *StatusBar) SetServerDown(down bool) {
	s.serverDown = down
}

// View renders the bar.
func (s *StatusBar) View() string {
	left := s.projectName
	if left == "" {
		left = "no project"
	}

	var state string
	if s.serverDown {
		state = s.theme.StatusError.Render("server unreachable")
	} else {
		state = s.theme.StatusState.Render(s.stateLabel())
	}

	hints := s.hints()

	bar := left + "  " + state
	gap := s.width - lipgloss.Width(bar) - lipgloss.Width(hints) - 2
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Render(bar + strings.Repeat(" ", gap) + hints)
}

func (s *StatusBar) stateLabel() string {
	switch s.state {
	case conversation.StateGenerating:
		return "generating"
	case conversation.StateToolApproval:
		return "awaiting approval"
	case conversation.StateToolExecuting:
		return "running tools"
	default:
		return "ready"
	}
}

func (s *StatusBar) hints() string {
	type hint struct{ key, desc string }
	var items []hint
	switch s.state {
	case conversation.StateIdle:
		items = []hint{{"enter", "send"}, {"ctrl+e", "export"}, {"ctrl+c", "quit"}}
	case conversation.StateToolApproval:
		items = []hint{{"space", "toggle"}, {"enter", "submit"}, {"esc", "cancel"}}
	default:
		items = []hint{{"esc", "cancel"}}
	}

	parts := make([]string, len(items))
	for i, h := range items {
		parts[i] = s.theme.ShortcutKey.Render(h.key) + " " + s.theme.ShortcutDsc.Render(h.desc)
	}
	return strings.Join(parts, "  ")
}
