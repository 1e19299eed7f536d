// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package conversation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Andriykkk/ai-cli/internal/model"
	"github.com/Andriykkk/ai-cli/internal/stream"
)

// =============================================================================
// FAKE TRANSPORT
// =============================================================================

// fakeTransport serves scripted frame bodies for send and resume. When a
// body is an io.Reader it is streamed as-is, allowing tests to hold the
// stream open.
type fakeTransport struct {
	sendBody   string
	resumeBody string
	sendReader io.Reader

	sendErr error

	lastMessage  string
	lastSession  string
	lastApproved []string
	lastDenied   []string
}

func (f *fakeTransport) SendMessage(ctx context.Context, projectID int, message string) (*stream.Decoder, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.lastMessage = message
	if f.sendReader != nil {
		return stream.NewDecoder(f.sendReader), nil
	}
	return stream.NewDecoder(strings.NewReader(f.sendBody)), nil
}

func (f *fakeTransport) Resume(ctx context.Context, sessionID string, projectID int, approved, denied []string) (*stream.Decoder, error) {
	f.lastSession = sessionID
	f.lastApproved = approved
	f.lastDenied = denied
	return stream.NewDecoder(strings.NewReader(f.resumeBody)), nil
}

// newTestConversation wires a conversation to a state channel so tests can
// wait for lifecycle transitions instead of sleeping.
func newTestConversation(transport Transport) (*Conversation, chan State) {
	conv := New(transport, 1)
	states := make(chan State, 32)
	conv.OnStateChanged = func(s State) { states <- s }
	return conv, states
}

func waitForState(t *testing.T, states chan State, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %q", want)
		}
	}
}

func frames(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("data: " + l + "\n")
	}
	return b.String()
}

// =============================================================================
// ROUND LIFECYCLE
// =============================================================================

func TestSend_PlainRound(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(
			`{"state":"generating","content":"Hel"}`,
			`{"state":"generating","content":"lo th"}`,
			`{"state":"completed","content":"Hello there!"}`,
		),
	}
	conv, states := newTestConversation(transport)

	if err := conv.Send("hi"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	waitForState(t, states, StateIdle)

	turns := conv.Turns()
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if turns[0].Role != model.RoleUser || turns[0].Content != "hi" {
		t.Errorf("user turn = %+v", turns[0])
	}
	// Final content is the completed step's authoritative value, not the
	// concatenation of increments.
	if turns[1].Content != "Hello there!" {
		t.Errorf("assistant content = %q", turns[1].Content)
	}
	if turns[1].InFlight {
		t.Error("assistant turn still marked in flight")
	}
}

func TestSend_RejectedWhileBusy(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	transport := &fakeTransport{sendReader: pr}
	conv, states := newTestConversation(transport)

	if err := conv.Send("first"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	io.WriteString(pw, "data: {\"state\":\"generating\",\"content\":\"x\"}\n")
	waitForState(t, states, StateGenerating)

	if err := conv.Send("second"); !errors.Is(err, ErrBusy) {
		t.Errorf("second Send error = %v, want ErrBusy", err)
	}
	conv.Cancel()
}

func TestSend_CompletedIsMomentary(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(`{"state":"completed","content":"done"}`),
	}
	conv, states := newTestConversation(transport)

	if err := conv.Send("hi"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	waitForState(t, states, StateCompleted)
	waitForState(t, states, StateIdle)

	if got := conv.State(); got != StateIdle {
		t.Errorf("settled state = %q", got)
	}
}

func TestSend_ModelErrorBecomesErrorTurn(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(
			`{"state":"generating","content":"partial"}`,
			`{"state":"completed","error":"model exploded"}`,
		),
	}
	conv, states := newTestConversation(transport)

	conv.Send("hi")
	waitForState(t, states, StateIdle)

	turns := conv.Turns()
	last := turns[len(turns)-1]
	if !last.IsError || last.Content != "model exploded" {
		t.Errorf("last turn = %+v", last)
	}
}

func TestSend_TransportFailureReturnsToIdle(t *testing.T) {
	transport := &fakeTransport{sendErr: errors.New("connection refused")}
	conv, states := newTestConversation(transport)

	conv.Send("hi")
	waitForState(t, states, StateIdle)

	turns := conv.Turns()
	last := turns[len(turns)-1]
	if !last.IsError {
		t.Errorf("expected error turn, got %+v", last)
	}
	if conv.State() != StateIdle {
		t.Errorf("state = %q", conv.State())
	}
}

func TestSend_StreamEndsWithoutCompleted(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(`{"state":"generating","content":"par"}`),
	}
	conv, states := newTestConversation(transport)

	conv.Send("hi")
	waitForState(t, states, StateIdle)

	turns := conv.Turns()
	last := turns[len(turns)-1]
	if !last.IsError {
		t.Errorf("expected error turn after truncated stream, got %+v", last)
	}
}

// =============================================================================
// CANCELLATION
// =============================================================================

func TestCancel_SynthesizesCanceledTurn(t *testing.T) {
	pr, pw := io.Pipe()
	transport := &fakeTransport{sendReader: pr}
	conv, states := newTestConversation(transport)

	conv.Send("hi")
	io.WriteString(pw, "data: {\"state\":\"generating\",\"content\":\"par\"}\n")
	waitForState(t, states, StateGenerating)

	conv.Cancel()

	if conv.State() != StateIdle {
		t.Fatalf("state after cancel = %q", conv.State())
	}
	turns := conv.Turns()
	last := turns[len(turns)-1]
	if !last.Canceled {
		t.Errorf("last turn = %+v, want canceled", last)
	}

	// A step still buffered from the aborted stream must be discarded.
	io.WriteString(pw, "data: {\"state\":\"completed\",\"content\":\"late\"}\n")
	pw.Close()
	time.Sleep(50 * time.Millisecond)

	after := conv.Turns()
	if len(after) != len(turns) {
		t.Errorf("late step mutated turns: %d -> %d", len(turns), len(after))
	}
	for _, turn := range after {
		if turn.Content == "late" {
			t.Error("late step content applied after cancel")
		}
	}
}

func TestCancel_FromToolApproval(t *testing.T) {
	pr, pw := io.Pipe()
	transport := &fakeTransport{sendReader: pr}
	conv, states := newTestConversation(transport)

	conv.Send("hi")
	io.WriteString(pw, `data: {"state":"tool_approval","session_id":"s1","tool_calls":[{"id":"a","name":"t","arguments":{}},{"id":"b","name":"t","arguments":{}}]}`+"\n")
	waitForState(t, states, StateToolApproval)
	if conv.Pending() == nil {
		t.Fatal("no pending approval before cancel")
	}

	conv.Cancel()
	pw.Close()
	time.Sleep(50 * time.Millisecond)

	if conv.State() != StateIdle {
		t.Errorf("state after cancel = %q", conv.State())
	}
	if conv.Pending() != nil {
		t.Error("pending approval survived cancel")
	}
	turns := conv.Turns()
	if last := turns[len(turns)-1]; !last.Canceled {
		t.Errorf("last turn = %+v, want canceled", last)
	}

	// The round never reached execution.
	for {
		select {
		case s := <-states:
			if s == StateToolExecuting {
				t.Error("tool_executing observed in a canceled approval round")
			}
		default:
			return
		}
	}
}

// An approval step carrying no tool calls has nothing to decide and must
// not pause the round or surface a prompt.
func TestToolApproval_EmptyCallSetIsIgnored(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(
			`{"state":"tool_approval","session_id":"s1","tool_calls":[]}`,
			`{"state":"completed","content":"done"}`,
		),
	}
	conv, states := newTestConversation(transport)
	surfaced := make(chan *Approval, 1)
	conv.OnApprovalPending = func(a *Approval) { surfaced <- a }

	conv.Send("hi")
	waitForState(t, states, StateIdle)

	select {
	case <-surfaced:
		t.Error("approval surfaced for an empty call set")
	default:
	}
	if conv.Pending() != nil {
		t.Errorf("pending = %+v", conv.Pending())
	}
	turns := conv.Turns()
	if last := turns[len(turns)-1]; last.Content != "done" {
		t.Errorf("final content = %q", last.Content)
	}
}

func TestCancel_WhileIdleIsNoop(t *testing.T) {
	conv, _ := newTestConversation(&fakeTransport{})
	conv.Cancel()
	if len(conv.Turns()) != 0 {
		t.Errorf("turns = %v", conv.Turns())
	}
}

// =============================================================================
// TOOL APPROVAL ROUND
// =============================================================================

func TestToolApprovalRound(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(
			`{"state":"generating","content":"Let me check."}`,
			`{"state":"tool_approval","session_id":"sess_9","tool_calls":[{"id":"c1","name":"run_command","arguments":{"command":"ls"}},{"id":"c2","name":"read_file","arguments":{"path":"a.txt"}}]}`,
		),
		resumeBody: frames(
			`{"state":"tool_executing"}`,
			`{"state":"completed","content":"Here is what I found.","tool_results":[{"tool_call_id":"c1","name":"run_command","content":"a.txt","success":true}]}`,
		),
	}
	conv, states := newTestConversation(transport)

	conv.Send("what files are here?")
	waitForState(t, states, StateToolApproval)

	pending := conv.Pending()
	if pending == nil {
		t.Fatal("no pending approval")
	}
	if pending.SessionID() != "sess_9" {
		t.Errorf("session = %q", pending.SessionID())
	}
	if len(pending.Calls()) != 2 {
		t.Fatalf("calls = %d", len(pending.Calls()))
	}

	pending.Toggle("c1") // approved
	pending.Toggle("c2") // approved
	pending.Toggle("c2") // denied

	if err := conv.SubmitDecisions(); err != nil {
		t.Fatalf("SubmitDecisions error: %v", err)
	}
	waitForState(t, states, StateIdle)

	if transport.lastSession != "sess_9" {
		t.Errorf("resume session = %q", transport.lastSession)
	}
	if len(transport.lastApproved) != 1 || transport.lastApproved[0] != "c1" {
		t.Errorf("approved = %v", transport.lastApproved)
	}
	if len(transport.lastDenied) != 1 || transport.lastDenied[0] != "c2" {
		t.Errorf("denied = %v", transport.lastDenied)
	}

	turns := conv.Turns()
	assistant := turns[len(turns)-1]
	if assistant.Content != "Here is what I found." {
		t.Errorf("content = %q", assistant.Content)
	}
	if len(assistant.ToolCalls) != 2 {
		t.Errorf("tool calls = %d", len(assistant.ToolCalls))
	}
	if len(assistant.ToolResults) != 1 {
		t.Fatalf("tool results = %d", len(assistant.ToolResults))
	}
	// run_command results carry the originating command for display.
	if assistant.ToolResults[0].Command != "ls" {
		t.Errorf("result command = %q", assistant.ToolResults[0].Command)
	}
	if conv.Pending() != nil {
		t.Error("pending approval not cleared after round")
	}
}

func TestSubmitDecisions_RequiresDecision(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(
			`{"state":"tool_approval","session_id":"s","tool_calls":[{"id":"c1","name":"t","arguments":{}}]}`,
		),
	}
	conv, states := newTestConversation(transport)

	conv.Send("hi")
	waitForState(t, states, StateToolApproval)

	if err := conv.SubmitDecisions(); !errors.Is(err, ErrNoDecision) {
		t.Errorf("error = %v, want ErrNoDecision", err)
	}
	conv.Cancel()
}

func TestSubmitDecisions_OutsideApproval(t *testing.T) {
	conv, _ := newTestConversation(&fakeTransport{})
	if err := conv.SubmitDecisions(); !errors.Is(err, ErrNoApproval) {
		t.Errorf("error = %v, want ErrNoApproval", err)
	}
}

// A second tool_approval step within the round replaces the pending set
// after the first batch's results are folded into the turn.
func TestToolApproval_SecondBatchReplacesPending(t *testing.T) {
	transport := &fakeTransport{
		sendBody: frames(
			`{"state":"tool_approval","session_id":"s1","tool_calls":[{"id":"c1","name":"t1","arguments":{}}]}`,
		),
		resumeBody: frames(
			`{"state":"tool_executing"}`,
			`{"state":"tool_approval","session_id":"s1","tool_calls":[{"id":"c2","name":"t2","arguments":{}}],"tool_results":[{"tool_call_id":"c1","name":"t1","content":"out1","success":true}]}`,
		),
	}
	conv, states := newTestConversation(transport)

	conv.Send("hi")
	waitForState(t, states, StateToolApproval)

	conv.Pending().ApproveAll()
	conv.SubmitDecisions()
	waitForState(t, states, StateToolExecuting)
	waitForState(t, states, StateToolApproval)

	pending := conv.Pending()
	if len(pending.Calls()) != 1 || pending.Calls()[0].ID != "c2" {
		t.Errorf("pending calls = %+v", pending.Calls())
	}

	turns := conv.Turns()
	assistant := turns[len(turns)-1]
	if len(assistant.ToolResults) != 1 || assistant.ToolResults[0].Content != "out1" {
		t.Errorf("first batch results not folded in: %+v", assistant.ToolResults)
	}
	if len(assistant.ToolCalls) != 2 {
		t.Errorf("accumulated calls = %d", len(assistant.ToolCalls))
	}
	conv.Cancel()
}

// =============================================================================
// SEEDED HISTORY
// =============================================================================

func TestSeedTurns(t *testing.T) {
	conv, _ := newTestConversation(&fakeTransport{})
	seed := []*model.Turn{model.NewUserHistoryTurn("old", time.Now())}

	conv.SeedTurns(seed)

	turns := conv.Turns()
	if len(turns) != 1 || turns[0].Content != "old" {
		t.Errorf("turns = %+v", turns)
	}
}
