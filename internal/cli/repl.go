// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/config"
	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/export"
	"github.com/Andriykkk/ai-cli/internal/history"
	"github.com/Andriykkk/ai-cli/internal/model"
	"github.com/Andriykkk/ai-cli/internal/storage"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// REPL
// =============================================================================

// REPL is the plain line-based chat interface. It drives the same
// conversation state machine as the TUI, blocking between rounds instead
// of rendering live.
type REPL struct {
	cfg     *config.Config
	client  *api.Client
	cache   *storage.HistoryCache // may be nil
	project api.Project

	conv   *conversation.Conversation
	states chan conversation.State

	line        *liner.State
	historyFile string
	out         io.Writer

	printed int // turns already written to out
}

// NewREPL creates the REPL for one project.
func NewREPL(cfg *config.Config, client *api.Client, cache *storage.HistoryCache, project api.Project) *REPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	r := &REPL{
		cfg:         cfg,
		client:      client,
		cache:       cache,
		project:     project,
		conv:        conversation.New(client, project.ID),
		states:      make(chan conversation.State, 16),
		line:        line,
		historyFile: filepath.Join(configDir, "input_history"),
		out:         os.Stdout,
	}
	r.conv.OnStateChanged = func(s conversation.State) {
		select {
		case r.states <- s:
		default:
		}
	}
	r.loadInputHistory()
	return r
}

// Close saves input history and releases the terminal.
func (r *REPL) Close() {
	r.saveInputHistory()
	r.line.Close()
}

func (r *REPL) loadInputHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveInputHistory() {
	f, err := os.Create(r.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

// =============================================================================
// MAIN LOOP
// =============================================================================

// Run loads the transcript and loops on user input until /quit or EOF.
func (r *REPL) Run() error {
	r.loadTranscript()

	fmt.Fprintf(r.out, "Connected to %s (project %q). /help for commands.\n\n",
		r.cfg.Server.URL, r.project.Name)
	r.printNewTurns()

	for {
		input, err := r.line.Prompt("> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.handleCommand(input); quit {
				return nil
			}
			continue
		}

		if err := r.conv.Send(input); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		r.waitRound()
	}
}

// waitRound blocks until the in-flight round settles, pausing for tool
// approval when the model asks for it.
func (r *REPL) waitRound() {
	for state := range r.states {
		switch state {
		case conversation.StateToolApproval:
			r.printNewTurns()
			r.promptDecisions()
		case conversation.StateIdle:
			r.printNewTurns()
			return
		}
	}
}

// promptDecisions collects a verdict for every pending call, then resumes
// the round.
func (r *REPL) promptDecisions() {
	pending := r.conv.Pending()
	if pending == nil {
		return
	}
	calls := pending.Calls()
	fmt.Fprintf(r.out, "\nThe assistant wants to run %d tool(s):\n", len(calls))

	for _, call := range calls {
		label := call.Name
		if cmd := call.ArgumentString("command"); cmd != "" {
			label += ": " + cmd
		}

		for {
			answer, err := r.line.Prompt(fmt.Sprintf("  %s [y/n/a/d] ", label))
			if err != nil {
				r.conv.Cancel()
				return
			}
			switch strings.ToLower(strings.TrimSpace(answer)) {
			case "y", "yes":
				pending.Toggle(call.ID) // undecided -> approved
			case "n", "no":
				pending.Toggle(call.ID)
				pending.Toggle(call.ID) // -> denied
			case "a":
				pending.ApproveAll()
			case "d":
				pending.DenyAll()
			default:
				continue
			}
			break
		}
		if !anyUndecided(pending, calls) {
			break
		}
	}

	if err := r.conv.SubmitDecisions(); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		r.conv.Cancel()
	}
}

func anyUndecided(pending *conversation.Approval, calls []model.ToolCall) bool {
	for _, call := range calls {
		if pending.Decision(call.ID) == conversation.Undecided {
			return true
		}
	}
	return false
}

// =============================================================================
// COMMANDS
// =============================================================================

func (r *REPL) handleCommand(input string) (quit bool) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit", "/q":
		return true

	case "/help":
		fmt.Fprintln(r.out, "Commands:")
		fmt.Fprintln(r.out, "  /history  reprint the full transcript")
		fmt.Fprintln(r.out, "  /projects list projects on the server")
		fmt.Fprintln(r.out, "  /export   write the transcript to a markdown file")
		fmt.Fprintln(r.out, "  /clear    clear this project's server history")
		fmt.Fprintln(r.out, "  /quit     exit")

	case "/history":
		r.printed = 0
		r.printNewTurns()

	case "/projects":
		r.listProjects()

	case "/export":
		r.exportTranscript()

	case "/clear":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		n, err := r.client.ClearHistory(ctx, r.project.ID)
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			break
		}
		if r.cache != nil {
			r.cache.Clear(r.project.ID)
		}
		r.conv.SeedTurns(nil)
		r.printed = 0
		fmt.Fprintf(r.out, "cleared %d record(s)\n", n)

	default:
		fmt.Fprintf(r.out, "unknown command %q, /help for commands\n", input)
	}
	return false
}

func (r *REPL) listProjects() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	projects, err := r.client.ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	for _, p := range projects {
		marker := "  "
		if p.ID == r.project.ID {
			marker = "* "
		}
		fmt.Fprintf(r.out, "%s%d  %s  (%s)\n", marker, p.ID, p.Name, p.Path)
	}
}

func (r *REPL) exportTranscript() {
	turns := r.conv.Turns()
	if len(turns) == 0 {
		fmt.Fprintln(r.out, "nothing to export")
		return
	}
	tr := &export.Transcript{
		ProjectID:   r.project.ID,
		ProjectName: r.project.Name,
		ExportedAt:  time.Now(),
		Turns:       turns,
	}
	opts := export.DefaultOptions()
	path, err := export.ExportToFile(tr, export.NewMarkdownExporter(opts), opts)
	if err != nil {
		fmt.Fprintf(r.out, "export failed: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "exported to %s\n", path)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// loadTranscript seeds the conversation from the server, or from the
// offline mirror when the server is unreachable.
func (r *REPL) loadTranscript() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	records, err := r.client.History(ctx, r.project.ID, r.cfg.History.Limit)
	if err == nil {
		if r.cache != nil {
			if mirrorErr := r.cache.Mirror(r.project.ID, records); mirrorErr != nil {
				util.Logf("repl: cache mirror failed: %v", mirrorErr)
			}
		}
		r.conv.SeedTurns(history.Reconstruct(records))
		return
	}

	if r.cache != nil {
		if cached, cacheErr := r.cache.ProjectHistory(r.project.ID, r.cfg.History.Limit); cacheErr == nil && len(cached) > 0 {
			fmt.Fprintln(r.out, "offline - showing cached transcript")
			r.conv.SeedTurns(history.Reconstruct(cached))
			return
		}
	}
	fmt.Fprintf(r.out, "history unavailable: %v\n", err)
}

// printNewTurns writes turns appended since the last call. An in-flight
// turn is held back until its round finalizes it.
func (r *REPL) printNewTurns() {
	turns := r.conv.Turns()
	for ; r.printed < len(turns); r.printed++ {
		if turns[r.printed].InFlight {
			break
		}
		r.printTurn(turns[r.printed])
	}
}

func (r *REPL) printTurn(turn *model.Turn) {
	fmt.Fprintf(r.out, "[%s] %s\n", turn.Role.DisplayName(), turn.DisplayContent())
	for i, call := range turn.ToolCalls {
		line := "  tool " + call.Name
		if cmd := call.ArgumentString("command"); cmd != "" {
			line += ": " + cmd
		}
		fmt.Fprintln(r.out, line)
		if i < len(turn.ToolResults) {
			result := turn.ToolResults[i]
			status := "ok"
			if !result.Success {
				status = "failed"
			}
			fmt.Fprintf(r.out, "  -> %s: %s\n", status, util.FirstLine(result.Content))
		}
	}
	fmt.Fprintln(r.out)
}
