// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/config"
	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/ui/components"
)

// Update is the Bubble Tea update loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The approval prompt owns the keyboard while visible.
	if cmd, handled := m.approval.Update(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if cmd, done := m.handleKey(msg); done {
			return m, cmd
		}

	case HistoryLoadedMsg:
		m.offline = msg.FromCache
		switch {
		case msg.Err != nil:
			m.notice = fmt.Sprintf("history unavailable: %v", msg.Err)
			m.status.SetServerDown(api.IsServerDown(msg.Err))
		case msg.FromCache:
			m.notice = "offline - showing cached transcript"
			m.status.SetServerDown(true)
		}
		m.conv.SeedTurns(msg.Turns)
		m.refreshTranscript(true)

	case TurnsChangedMsg:
		m.refreshTranscript(true)

	case StateChangedMsg:
		m.status.SetState(msg.State)
		switch msg.State {
		case conversation.StateGenerating:
			cmds = append(cmds, m.spinner.Start("thinking"))
		case conversation.StateToolExecuting:
			cmds = append(cmds, m.spinner.Start("running tools"))
		case conversation.StateIdle, conversation.StateToolApproval:
			m.spinner.Stop()
		}

	case ApprovalPendingMsg:
		m.approval.Show(msg.Approval)
		m.approval.SetSize(m.width)

	case components.ApprovalSubmitMsg:
		if err := m.conv.SubmitDecisions(); err != nil {
			m.notice = err.Error()
		}

	case components.ApprovalCancelMsg:
		m.conv.Cancel()

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("export failed: %v", msg.Err)
		} else {
			m.notice = fmt.Sprintf("exported to %s", msg.Path)
		}

	default:
		if cmd := m.spinner.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes global keys. Returns done=true when the event must
// not fall through to the text input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.conv.Cancel()
		return tea.Quit, true

	case "esc":
		if m.conv.State().Busy() {
			m.conv.Cancel()
			return nil, true
		}
		return nil, false

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return nil, true
		}
		if err := m.conv.Send(text); err != nil {
			m.notice = err.Error()
			return nil, true
		}
		m.notice = ""
		m.input.Reset()
		return nil, true

	case "ctrl+e":
		if len(m.conv.Turns()) == 0 {
			m.notice = "nothing to export"
			return nil, true
		}
		return m.exportCmd(), true

	case "pgup":
		m.viewport.HalfViewUp()
		return nil, true

	case "pgdown":
		m.viewport.HalfViewDown()
		return nil, true
	}
	return nil, false
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.renderer.SetWidth(width - 2)
	m.status.SetWidth(width)
	m.approval.SetSize(width)
	m.input.Width = width - 6

	chromeHeight := 5 // header, input border, input, status, spinner line
	if !m.ready {
		m.viewport = newViewport(width, height-chromeHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height - chromeHeight
	}
	m.refreshTranscript(false)
}

// applyConfig swaps in a reloaded configuration and rebuilds the renderer
// so markdown and syntax-theme changes take effect on the open transcript.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.renderer = components.NewTurnRenderer(m.theme, cfg.UI.Markdown, cfg.UI.SyntaxTheme)
	if m.width > 0 {
		m.renderer.SetWidth(m.width - 2)
	}
	m.refreshTranscript(false)
}

// refreshTranscript re-renders the turn list into the viewport.
func (m *Model) refreshTranscript(follow bool) {
	if !m.ready {
		return
	}
	turns := m.conv.Turns()
	if len(turns) == 0 {
		m.viewport.SetContent(m.welcome.View())
		return
	}

	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderer.Render(turn))
	}
	m.viewport.SetContent(sb.String())
	if follow {
		m.viewport.GotoBottom()
	}
}
