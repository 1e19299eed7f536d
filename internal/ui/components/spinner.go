// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Andriykkk/ai-cli/internal/ui/styles"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// SPINNER
// =============================================================================

// Spinner shows generation progress with a message and elapsed time.
type Spinner struct {
	spinner   spinner.Model
	theme     *styles.Theme
	message   string
	startTime time.Time
	active    bool
}

// NewSpinner creates a spinner with ASCII-compatible frames.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner
	return Spinner{spinner: s, theme: theme}
}

// Start activates the spinner with a message.
func (s *Spinner) Start(message string) tea.Cmd {
	s.message = message
	s.startTime = time.Now()
	s.active = true
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.active
}

// Update advances the animation.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, empty when inactive.
func (s *Spinner) View() string {
	if !s.active {
		return ""
	}
	elapsed := util.FormatDuration(time.Since(s.startTime))
	return fmt.Sprintf("%s %s %s",
		s.spinner.View(),
		s.theme.ThinkingText.Render(s.message),
		s.theme.TurnTimestamp.Render(elapsed))
}
