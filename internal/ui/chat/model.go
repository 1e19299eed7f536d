// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/config"
	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/export"
	"github.com/Andriykkk/ai-cli/internal/history"
	"github.com/Andriykkk/ai-cli/internal/storage"
	"github.com/Andriykkk/ai-cli/internal/ui/components"
	"github.com/Andriykkk/ai-cli/internal/ui/styles"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for one project's chat view.
type Model struct {
	cfg     *config.Config
	client  *api.Client
	cache   *storage.HistoryCache // nil when offline caching is disabled
	project api.Project

	conv *conversation.Conversation

	theme    *styles.Theme
	renderer *components.TurnRenderer
	approval *components.ApprovalPrompt
	spinner  components.Spinner
	status   *components.StatusBar
	welcome  *components.Welcome

	viewport viewport.Model
	input    textinput.Model

	width  int
	height int
	ready  bool

	offline bool // transcript came from the cache
	notice  string
}

// New creates the chat view for a project. cache may be nil.
func New(cfg *config.Config, client *api.Client, cache *storage.HistoryCache, project api.Project) *Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	m := &Model{
		cfg:      cfg,
		client:   client,
		cache:    cache,
		project:  project,
		conv:     conversation.New(client, project.ID),
		theme:    theme,
		renderer: components.NewTurnRenderer(theme, cfg.UI.Markdown, cfg.UI.SyntaxTheme),
		approval: components.NewApprovalPrompt(theme),
		spinner:  components.NewSpinner(theme),
		status:   components.NewStatusBar(theme),
		welcome:  components.NewWelcome(theme, project.Name, cfg.Server.URL),
		input:    input,
	}
	m.status.SetProject(project.Name)
	return m
}

// Conversation exposes the state machine for the relay binding.
func (m *Model) Conversation() *conversation.Conversation {
	return m.conv
}

// Init starts the history load and the input cursor blink.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadHistoryCmd(), textinput.Blink)
}

// =============================================================================
// HISTORY LOAD
// =============================================================================

// loadHistoryCmd fetches persisted records and reconstructs the
// transcript. Server first; on failure the offline mirror answers, so the
// view still opens with the last known transcript.
func (m *Model) loadHistoryCmd() tea.Cmd {
	client := m.client
	cache := m.cache
	projectID := m.project.ID
	limit := m.cfg.History.Limit

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		records, err := client.History(ctx, projectID, limit)
		if err == nil {
			if cache != nil {
				if mirrorErr := cache.Mirror(projectID, records); mirrorErr != nil {
					util.Logf("chat: cache mirror failed: %v", mirrorErr)
				}
			}
			return HistoryLoadedMsg{Turns: history.Reconstruct(records)}
		}

		if cache != nil {
			cached, cacheErr := cache.ProjectHistory(projectID, limit)
			if cacheErr == nil && len(cached) > 0 {
				return HistoryLoadedMsg{Turns: history.Reconstruct(cached), FromCache: true}
			}
		}
		return HistoryLoadedMsg{Err: err}
	}
}

// =============================================================================
// EXPORT
// =============================================================================

func (m *Model) exportCmd() tea.Cmd {
	tr := &export.Transcript{
		ProjectID:   m.project.ID,
		ProjectName: m.project.Name,
		ExportedAt:  time.Now(),
		Turns:       m.conv.Turns(),
	}
	return func() tea.Msg {
		opts := export.DefaultOptions()
		path, err := export.ExportToFile(tr, export.NewMarkdownExporter(opts), opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}
