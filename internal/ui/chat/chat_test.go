// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package chat

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/config"
	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/model"
)

func newTestModel() *Model {
	cfg := config.Default()
	cfg.UI.Markdown = false
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	return New(cfg, client, nil, api.Project{ID: 1, Name: "demo"})
}

func TestModel_ShowsWelcomeWhenEmpty(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	if !strings.Contains(view, "Type a message to start") {
		t.Errorf("welcome not shown:\n%s", view)
	}
}

func TestModel_HistoryLoadedRendersTurns(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	turns := []*model.Turn{
		model.NewUserHistoryTurn("old question", time.Now()),
		model.NewAssistantHistoryTurn("old answer", time.Now()),
	}
	m.Update(HistoryLoadedMsg{Turns: turns})

	view := m.View()
	if !strings.Contains(view, "old question") || !strings.Contains(view, "old answer") {
		t.Errorf("history turns not rendered:\n%s", view)
	}
}

func TestModel_CachedHistoryShowsOfflineNotice(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(HistoryLoadedMsg{
		Turns:     []*model.Turn{model.NewUserHistoryTurn("hi", time.Now())},
		FromCache: true,
	})

	if !strings.Contains(m.View(), "offline") {
		t.Error("offline notice missing")
	}
}

func TestModel_ApprovalPendingShowsPrompt(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	approval := conversation.NewApproval("s1", []model.ToolCall{
		{ID: "c1", Name: "run_command", Arguments: map[string]interface{}{"command": "ls"}},
	})
	m.Update(ApprovalPendingMsg{Approval: approval})

	if !m.approval.IsVisible() {
		t.Fatal("approval prompt not visible")
	}
	if !strings.Contains(m.View(), "run_command") {
		t.Error("prompt content missing from view")
	}
}

func TestModel_StateChangedUpdatesStatus(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(StateChangedMsg{State: conversation.StateGenerating})
	if !strings.Contains(m.View(), "generating") {
		t.Error("status bar not updated")
	}

	m.Update(StateChangedMsg{State: conversation.StateIdle})
	if !strings.Contains(m.View(), "ready") {
		t.Error("status bar not reset to ready")
	}
}

func TestModel_ConfigReloadRebuildsRenderer(t *testing.T) {
	m := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(HistoryLoadedMsg{Turns: []*model.Turn{model.NewUserHistoryTurn("hi", time.Now())}})

	old := m.renderer
	next := config.Default()
	next.UI.Markdown = true
	next.UI.SyntaxTheme = "dracula"
	m.Update(ConfigReloadedMsg{Config: next})

	if m.cfg != next {
		t.Error("reloaded config not applied")
	}
	if m.renderer == old {
		t.Error("renderer not rebuilt for new UI settings")
	}
	if !strings.Contains(m.View(), "hi") {
		t.Error("transcript lost after reload")
	}

	// A nil payload is ignored.
	m.Update(ConfigReloadedMsg{})
	if m.cfg != next {
		t.Error("nil reload replaced the config")
	}
}

func TestRelay_ForwardsCallbacks(t *testing.T) {
	m := newTestModel()
	got := make(chan tea.Msg, 8)
	BindConversation(m.Conversation(), sendFunc(func(msg tea.Msg) { got <- msg }))

	m.Conversation().SeedTurns([]*model.Turn{model.NewUserHistoryTurn("hi", time.Now())})

	select {
	case msg := <-got:
		if _, ok := msg.(TurnsChangedMsg); !ok {
			t.Errorf("message = %T", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no relay message")
	}
}

type sendFunc func(tea.Msg)

func (f sendFunc) Send(msg tea.Msg) { f(msg) }
