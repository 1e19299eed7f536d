// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/config"
	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/model"
)

// newTestREPL builds a REPL without a terminal: no liner, output into buf.
func newTestREPL(buf *bytes.Buffer) *REPL {
	return &REPL{
		cfg:     config.Default(),
		project: api.Project{ID: 1, Name: "demo"},
		conv:    conversation.New(nil, 1),
		states:  make(chan conversation.State, 16),
		out:     buf,
	}
}

func TestPrintTurnPlain(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(&buf)

	r.printTurn(model.NewUserHistoryTurn("hello there", time.Now()))

	out := buf.String()
	if !strings.Contains(out, "[You] hello there") {
		t.Errorf("missing user line, got %q", out)
	}
}

func TestPrintTurnWithToolCalls(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(&buf)

	turn := model.NewAssistantHistoryTurn("done", time.Now())
	turn.ToolCalls = []model.ToolCall{
		{ID: "c1", Name: "run_command", Arguments: map[string]interface{}{"command": "ls -la"}},
		{ID: "c2", Name: "read_file", Arguments: map[string]interface{}{"path": "go.mod"}},
	}
	turn.ToolResults = []model.ToolResult{
		{ToolCallID: "c1", Name: "run_command", Content: "total 8\nfile.txt", Success: true},
		{ToolCallID: "c2", Name: "read_file", Content: "no such file", Success: false},
	}
	r.printTurn(turn)

	out := buf.String()
	for _, want := range []string{
		"[Assistant] done",
		"tool run_command: ls -la",
		"-> ok: total 8",
		"tool read_file",
		"-> failed: no such file",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "file.txt") {
		t.Errorf("result output should be truncated to its first line:\n%s", out)
	}
}

func TestPrintNewTurnsHoldsBackInFlight(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(&buf)

	finished := model.NewUserHistoryTurn("first", time.Now())
	streaming := model.NewAssistantTurn()
	streaming.AppendContent("partial")
	r.conv.SeedTurns([]*model.Turn{finished, streaming})

	r.printNewTurns()

	out := buf.String()
	if !strings.Contains(out, "first") {
		t.Errorf("finished turn not printed: %q", out)
	}
	if strings.Contains(out, "partial") {
		t.Errorf("in-flight turn printed early: %q", out)
	}

	// Once the round finalizes the turn, the next pass prints it.
	streaming.FinalizeContent("final answer")
	buf.Reset()
	r.printNewTurns()
	if !strings.Contains(buf.String(), "final answer") {
		t.Errorf("finalized turn not printed: %q", buf.String())
	}
}

func TestAnyUndecided(t *testing.T) {
	calls := []model.ToolCall{{ID: "c1", Name: "run_command"}, {ID: "c2", Name: "run_command"}}
	pending := conversation.NewApproval("sess", calls)

	if !anyUndecided(pending, calls) {
		t.Error("fresh approval should have undecided calls")
	}
	pending.Toggle("c1")
	if !anyUndecided(pending, calls) {
		t.Error("c2 is still undecided")
	}
	pending.Toggle("c2")
	pending.Toggle("c2") // approved -> denied
	if anyUndecided(pending, calls) {
		t.Error("all calls decided")
	}
}

func TestHandleCommandQuit(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(&buf)

	for _, cmd := range []string{"/quit", "/exit", "/q"} {
		if !r.handleCommand(cmd) {
			t.Errorf("%s should quit", cmd)
		}
	}
	if r.handleCommand("/help") {
		t.Error("/help should not quit")
	}
	if !strings.Contains(buf.String(), "/export") {
		t.Errorf("help should list commands, got %q", buf.String())
	}
}

func TestHandleCommandHistoryReprints(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(&buf)
	r.conv.SeedTurns([]*model.Turn{model.NewUserHistoryTurn("earlier message", time.Now())})

	r.printNewTurns()
	buf.Reset()

	r.handleCommand("/history")
	if !strings.Contains(buf.String(), "earlier message") {
		t.Errorf("/history should reprint the transcript, got %q", buf.String())
	}
}

func TestHandleCommandUnknown(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(&buf)

	if r.handleCommand("/bogus") {
		t.Error("unknown command should not quit")
	}
	if !strings.Contains(buf.String(), "unknown command") {
		t.Errorf("expected unknown-command notice, got %q", buf.String())
	}
}
