// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package components

import (
	"fmt"
	"strings"

	"github.com/Andriykkk/ai-cli/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome renders the empty-transcript placeholder shown when a project
// has no history yet.
type Welcome struct {
	theme       *styles.Theme
	projectName string
	serverURL   string
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme, projectName, serverURL string) *Welcome {
	return &Welcome{theme: theme, projectName: projectName, serverURL: serverURL}
}

// View renders the welcome box.
func (w *Welcome) View() string {
	var sb strings.Builder
	sb.WriteString(w.theme.WelcomeTitle.Render("ai-cli"))
	sb.WriteString("\n\n")
	if w.projectName != "" {
		sb.WriteString(w.theme.WelcomeInfo.Render(fmt.Sprintf("Project: %s", w.projectName)))
		sb.WriteString("\n")
	}
	sb.WriteString(w.theme.WelcomeInfo.Render(fmt.Sprintf("Server: %s", w.serverURL)))
	sb.WriteString("\n\n")
	sb.WriteString(w.theme.WelcomeInfo.Render("Type a message to start the conversation."))
	return w.theme.WelcomeBox.Render(sb.String())
}
