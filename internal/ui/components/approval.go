// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/ui/styles"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// APPROVAL PROMPT
// =============================================================================

// ApprovalSubmitMsg is emitted when the user submits their decisions.
type ApprovalSubmitMsg struct{}

// ApprovalCancelMsg is emitted when the user aborts the round from the
// prompt.
type ApprovalCancelMsg struct{}

// ApprovalPrompt displays the pending tool calls with their decisions and
// lets the user cycle each one, bulk-decide, submit, or cancel the round.
type ApprovalPrompt struct {
	approval *conversation.Approval

	visible  bool
	selected int
	width    int

	theme *styles.Theme
}

// NewApprovalPrompt creates an approval prompt.
func NewApprovalPrompt(theme *styles.Theme) *ApprovalPrompt {
	return &ApprovalPrompt{theme: theme}
}

// Show displays the prompt for a pending approval set.
func (p *ApprovalPrompt) Show(approval *conversation.Approval) {
	p.approval = approval
	p.visible = true
	p.selected = 0
}

// Hide hides the prompt.
func (p *ApprovalPrompt) Hide() {
	p.visible = false
	p.approval = nil
}

// IsVisible returns whether the prompt is on screen.
func (p *ApprovalPrompt) IsVisible() bool {
	return p.visible
}

// SetSize updates the prompt dimensions.
func (p *ApprovalPrompt) SetSize(width int) {
	p.width = width
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// Update handles key events. The second return reports whether the event
// was consumed.
func (p *ApprovalPrompt) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !p.visible || p.approval == nil {
		return nil, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	calls := p.approval.Calls()

	switch keyMsg.String() {
	case "up", "k":
		if len(calls) > 0 {
			p.selected = (p.selected - 1 + len(calls)) % len(calls)
		}
		return nil, true

	case "down", "j", "tab":
		if len(calls) > 0 {
			p.selected = (p.selected + 1) % len(calls)
		}
		return nil, true

	case " ", "t":
		if len(calls) > 0 {
			p.approval.Toggle(calls[p.selected].ID)
		}
		return nil, true

	case "a":
		p.approval.ApproveAll()
		return nil, true

	case "d":
		p.approval.DenyAll()
		return nil, true

	case "u":
		p.approval.Clear()
		return nil, true

	case "enter":
		if !p.approval.Decided() {
			return nil, true
		}
		p.Hide()
		return func() tea.Msg { return ApprovalSubmitMsg{} }, true

	case "esc":
		p.Hide()
		return func() tea.Msg { return ApprovalCancelMsg{} }, true
	}

	return nil, false
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the prompt.
func (p *ApprovalPrompt) View() string {
	if !p.visible || p.approval == nil {
		return ""
	}

	boxWidth := 64
	if p.width > 0 && p.width-6 < boxWidth {
		boxWidth = p.width - 6
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	var content strings.Builder
	calls := p.approval.Calls()
	content.WriteString(p.theme.ApprovalTitle.Render(
		fmt.Sprintf("The assistant wants to run %d tool(s)", len(calls))))
	content.WriteString("\n\n")

	for i, call := range calls {
		marker := p.decisionMarker(p.approval.Decision(call.ID))
		label := call.Name
		if cmd := call.ArgumentString("command"); cmd != "" {
			label += "  " + util.TruncateWidth(cmd, boxWidth-16)
		}

		line := fmt.Sprintf("%s %s", marker, label)
		if i == p.selected {
			line = p.theme.ApprovalSelected.Render(line)
		} else {
			line = p.theme.ApprovalItem.Render(line)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(p.theme.ApprovalHint.Render(
		"space toggle - a approve all - d deny all - u clear - enter submit - esc cancel"))

	return p.theme.ApprovalBox.Width(boxWidth).Render(content.String())
}

func (p *ApprovalPrompt) decisionMarker(d conversation.Decision) string {
	switch d {
	case conversation.Approved:
		return p.theme.ApprovalApproved.Render("[yes]")
	case conversation.Denied:
		return p.theme.ApprovalDenied.Render("[no ]")
	default:
		return p.theme.ApprovalHint.Render("[ ? ]")
	}
}
