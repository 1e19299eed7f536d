// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Andriykkk/ai-cli/internal/model"
	"github.com/Andriykkk/ai-cli/internal/ui/styles"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// TURN RENDERER
// =============================================================================

// TurnRenderer renders conversation turns for the transcript viewport.
type TurnRenderer struct {
	theme       *styles.Theme
	markdown    *glamour.TermRenderer
	syntaxTheme string
	width       int
	showOutput  bool
}

// NewTurnRenderer creates a renderer. useMarkdown enables glamour for
// assistant content; when the renderer cannot be built, output falls back
// to plain text.
func NewTurnRenderer(theme *styles.Theme, useMarkdown bool, syntaxTheme string) *TurnRenderer {
	r := &TurnRenderer{
		theme:       theme,
		syntaxTheme: syntaxTheme,
		width:       80,
		showOutput:  true,
	}
	if useMarkdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(78),
		)
		if err == nil {
			r.markdown = md
		}
	}
	return r
}

// SetWidth updates the wrap width.
func (r *TurnRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	r.width = width
	if r.markdown != nil {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width-2),
		)
		if err == nil {
			r.markdown = md
		}
	}
}

// Render renders one turn including its tool calls and results.
func (r *TurnRenderer) Render(turn *model.Turn) string {
	var sb strings.Builder

	sb.WriteString(r.header(turn))
	sb.WriteString("\n")

	content := turn.DisplayContent()
	switch {
	case turn.IsError:
		sb.WriteString(r.theme.ErrorTurn.Render(content))
		sb.WriteString("\n")
	case turn.Canceled:
		sb.WriteString(r.theme.CanceledTurn.Render(content))
		sb.WriteString("\n")
	case content != "":
		sb.WriteString(r.renderContent(turn, content))
	}

	for i, call := range turn.ToolCalls {
		sb.WriteString(r.renderToolCall(turn, call, i))
	}

	return sb.String()
}

func (r *TurnRenderer) header(turn *model.Turn) string {
	var label string
	switch turn.Role {
	case model.RoleUser:
		label = r.theme.UserLabel.Render(turn.Role.DisplayName())
	default:
		label = r.theme.AssistantLabel.Render(turn.Role.DisplayName())
	}
	if !turn.Timestamp.IsZero() {
		label += " " + r.theme.TurnTimestamp.Render(util.FormatClock(turn.Timestamp))
	}
	if turn.InFlight {
		label += " " + r.theme.ThinkingText.Render("...")
	}
	return label
}

func (r *TurnRenderer) renderContent(turn *model.Turn, content string) string {
	// Markdown rendering only for finalized assistant turns; re-rendering
	// a growing stream through glamour flickers badly.
	if r.markdown != nil && turn.Role == model.RoleAssistant && !turn.InFlight {
		if out, err := r.markdown.Render(content); err == nil {
			return strings.TrimLeft(out, "\n")
		}
	}
	return r.theme.TurnBody.Width(r.width).Render(content) + "\n"
}

func (r *TurnRenderer) renderToolCall(turn *model.Turn, call model.ToolCall, index int) string {
	var sb strings.Builder

	sb.WriteString(r.theme.ToolHeader.Render(fmt.Sprintf("tool: %s", call.Name)))
	sb.WriteString("\n")
	if cmd := call.ArgumentString("command"); cmd != "" {
		sb.WriteString(r.theme.ToolCommand.Render("$ " + HighlightCommand(cmd, r.syntaxTheme)))
		sb.WriteString("\n")
	}

	if result := resultForCall(turn, call, index); result != nil {
		if result.Success {
			sb.WriteString(r.theme.ToolSuccess.Render("ok"))
		} else {
			sb.WriteString(r.theme.ToolFailure.Render("failed"))
		}
		sb.WriteString("\n")
		if r.showOutput && result.Content != "" {
			output := util.TruncateRunes(strings.TrimRight(result.Content, "\n"), 2000)
			sb.WriteString(r.theme.ToolOutput.Render(output))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// resultForCall finds the call's result, preferring id correlation and
// falling back to position for reconstructed history.
func resultForCall(turn *model.Turn, call model.ToolCall, index int) *model.ToolResult {
	for i := range turn.ToolResults {
		if turn.ToolResults[i].ToolCallID == call.ID && call.ID != "" {
			return &turn.ToolResults[i]
		}
	}
	if index < len(turn.ToolResults) {
		return &turn.ToolResults[index]
	}
	return nil
}
