// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

func newViewport(width, height int) viewport.Model {
	if height < 1 {
		height = 1
	}
	vp := viewport.New(width, height)
	return vp
}

// View renders the full chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var sb strings.Builder

	title := "ai-cli"
	if m.project.Name != "" {
		title += " - " + m.project.Name
	}
	sb.WriteString(m.theme.Header.Width(m.width).Render(m.theme.HeaderTitle.Render(title)))
	sb.WriteString("\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	if m.approval.IsVisible() {
		sb.WriteString(m.approval.View())
		sb.WriteString("\n")
	}

	if spin := m.spinner.View(); spin != "" {
		sb.WriteString(spin)
		sb.WriteString("\n")
	} else if m.notice != "" {
		sb.WriteString(m.theme.ThinkingText.Render(m.notice))
		sb.WriteString("\n")
	}

	sb.WriteString(m.theme.InputContainer.Width(m.width).Render(m.input.View()))
	sb.WriteString("\n")
	sb.WriteString(m.status.View())

	return sb.String()
}
