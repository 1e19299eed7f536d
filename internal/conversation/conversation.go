// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Andriykkk/ai-cli/internal/model"
	"github.com/Andriykkk/ai-cli/internal/stream"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// STATE
// =============================================================================

// State is the conversation's lifecycle state.
type State string

const (
	StateIdle          State = "idle"
	StateGenerating    State = "generating"
	StateToolApproval  State = "tool_approval"
	StateToolExecuting State = "tool_executing"

	// StateCompleted is momentary: observers see it once per finished
	// round, immediately followed by StateIdle.
	StateCompleted State = "completed"
)

// Busy reports whether a round is in flight.
func (s State) Busy() bool {
	return s != StateIdle
}

var (
	// ErrBusy is returned by Send while a round is already in flight.
	ErrBusy = errors.New("a generation round is already in progress")

	// ErrNoApproval is returned by SubmitDecisions outside tool_approval.
	ErrNoApproval = errors.New("no tool approval is pending")
)

// =============================================================================
// TRANSPORT BOUNDARY
// =============================================================================

// Transport starts and resumes generation rounds. *api.Client satisfies it.
type Transport interface {
	SendMessage(ctx context.Context, projectID int, message string) (*stream.Decoder, error)
	Resume(ctx context.Context, sessionID string, projectID int, approved, denied []string) (*stream.Decoder, error)
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the state machine for one chat view. All methods are
// safe for concurrent use; step application from the stream goroutine and
// caller commands serialize on the same lock.
type Conversation struct {
	mu sync.Mutex

	transport Transport
	projectID int

	state   State
	turns   []*model.Turn
	current *model.Turn // in-flight assistant turn, nil when idle

	pending   *Approval // non-nil only in tool_approval
	sessionID string

	// generation tags the active round's stream. Cancel bumps it, so
	// steps still buffered from an aborted stream are discarded instead
	// of applied.
	generation uint64
	cancelRun  context.CancelFunc

	// Callbacks are invoked with the lock released, in event order.
	OnStateChanged    func(State)
	OnTurnsChanged    func()
	OnApprovalPending func(*Approval)
}

// New creates an idle conversation for one project.
func New(transport Transport, projectID int) *Conversation {
	return &Conversation{
		transport: transport,
		projectID: projectID,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Turns returns a snapshot of the turn list.
func (c *Conversation) Turns() []*model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// SeedTurns installs reconstructed history turns. Only valid while idle.
func (c *Conversation) SeedTurns(turns []*model.Turn) {
	c.mu.Lock()
	if c.state == StateIdle {
		c.turns = append([]*model.Turn(nil), turns...)
	}
	c.mu.Unlock()
	c.notifyTurns()
}

// Pending returns the active approval set, or nil.
func (c *Conversation) Pending() *Approval {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// =============================================================================
// ROUND LIFECYCLE
// =============================================================================

// Send starts a new generation round. It appends the user turn and drives
// the response stream on a background goroutine; rejected with ErrBusy
// while any round is in flight.
func (c *Conversation) Send(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return errors.New("empty message")
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.turns = append(c.turns, model.NewUserTurn(message))
	c.setStateLocked(StateGenerating)
	gen := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelRun = cancel
	c.mu.Unlock()

	c.notifyTurns()
	c.notifyState(StateGenerating)

	go c.runStream(ctx, gen, func() (*stream.Decoder, error) {
		return c.transport.SendMessage(ctx, c.projectID, message)
	})
	return nil
}

// SubmitDecisions resolves the pending approval set and resumes the round.
// At least one call must be decided; undecided ids are carried in neither
// list.
func (c *Conversation) SubmitDecisions() error {
	c.mu.Lock()
	if c.state != StateToolApproval || c.pending == nil {
		c.mu.Unlock()
		return ErrNoApproval
	}
	if !c.pending.Decided() {
		c.mu.Unlock()
		return ErrNoDecision
	}
	approved, denied := c.pending.Partition()
	sessionID := c.sessionID
	c.pending = nil
	c.setStateLocked(StateToolExecuting)
	gen := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelRun = cancel
	c.mu.Unlock()

	c.notifyState(StateToolExecuting)

	go c.runStream(ctx, gen, func() (*stream.Decoder, error) {
		return c.transport.Resume(ctx, sessionID, c.projectID, approved, denied)
	})
	return nil
}

// Cancel aborts the in-flight round: local state flips to idle before the
// transport acknowledges the abort, a synthesized "canceled" turn is
// appended, and any step still in flight from the old stream is discarded.
// No-op while idle.
func (c *Conversation) Cancel() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	c.generation++
	if c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}
	c.dropEmptyCurrentLocked()
	c.releaseRoundLocked()
	c.turns = append(c.turns, model.NewCanceledTurn())
	c.setStateLocked(StateIdle)
	c.mu.Unlock()

	c.notifyTurns()
	c.notifyState(StateIdle)
}

// runStream opens a step stream and applies its steps until the stream
// ends. Any transport failure, or a stream that ends without a completed
// step, finishes the round as completed-with-error so state never sticks.
func (c *Conversation) runStream(ctx context.Context, gen uint64, open func() (*stream.Decoder, error)) {
	dec, err := open()
	if err != nil {
		c.finishWithError(gen, err.Error())
		return
	}
	defer dec.Close()

	err = dec.Drain(ctx, func(step model.ConversationStep) {
		c.applyStep(gen, &step)
	})
	if err != nil {
		if ctx.Err() != nil {
			// Cancel already settled the state; nothing to report.
			return
		}
		c.finishWithError(gen, err.Error())
		return
	}

	// Stream closed cleanly. If this round is still live and unfinished,
	// the server went away without a terminal step.
	c.mu.Lock()
	unfinished := gen == c.generation && c.state.Busy() && c.state != StateToolApproval
	c.mu.Unlock()
	if unfinished {
		c.finishWithError(gen, "stream ended before the response completed")
	}
}

// =============================================================================
// STEP APPLICATION
// =============================================================================

// applyStep folds one decoded step into the conversation. Steps from
// superseded streams are dropped.
func (c *Conversation) applyStep(gen uint64, step *model.ConversationStep) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		util.Logf("conversation: discarding %s step from canceled stream", step.State)
		return
	}

	switch step.State {
	case model.StateGenerating:
		c.ensureCurrentLocked()
		if step.Content != "" {
			c.current.AppendContent(step.Content)
		}
		c.setStateLocked(StateGenerating)
		c.mu.Unlock()
		c.notifyTurns()
		c.notifyState(StateGenerating)

	case model.StateToolApproval:
		c.ensureCurrentLocked()
		if step.Content != "" {
			c.current.AppendContent(step.Content)
		}
		c.attachResultsLocked(step.ToolResults)
		c.current.ToolCalls = append(c.current.ToolCalls, step.ToolCalls...)
		if step.SessionID != "" {
			c.sessionID = step.SessionID
		}
		if len(step.ToolCalls) == 0 {
			// Nothing to decide; don't pause the round on an empty set.
			c.setStateLocked(StateGenerating)
			c.mu.Unlock()
			util.Logf("conversation: ignoring approval request with no tool calls")
			c.notifyTurns()
			c.notifyState(StateGenerating)
			return
		}
		// A fresh approval set replaces any prior one; the prior batch's
		// results were folded in above before losing UI focus.
		pending := NewApproval(c.sessionID, step.ToolCalls)
		c.pending = pending
		c.setStateLocked(StateToolApproval)
		c.mu.Unlock()
		c.notifyTurns()
		c.notifyState(StateToolApproval)
		if c.OnApprovalPending != nil {
			c.OnApprovalPending(pending)
		}

	case model.StateToolExecuting:
		c.attachResultsLocked(step.ToolResults)
		c.setStateLocked(StateToolExecuting)
		c.mu.Unlock()
		c.notifyTurns()
		c.notifyState(StateToolExecuting)

	case model.StateCompleted:
		if step.Error != "" {
			c.dropEmptyCurrentLocked()
			c.turns = append(c.turns, model.NewErrorTurn(step.Error))
		} else {
			c.ensureCurrentLocked()
			c.attachResultsLocked(step.ToolResults)
			c.current.FinalizeContent(step.Content)
		}
		c.releaseRoundLocked()
		c.setStateLocked(StateCompleted)
		c.mu.Unlock()
		c.notifyTurns()
		c.notifyState(StateCompleted)
		c.settleIdle(gen)

	default:
		c.mu.Unlock()
		util.Logf("conversation: ignoring step with unknown state %q", step.State)
	}
}

// finishWithError ends the round like a completed step carrying an error:
// the in-flight turn is released, an error turn is appended, and state
// returns to idle.
func (c *Conversation) finishWithError(gen uint64, message string) {
	c.mu.Lock()
	if gen != c.generation || !c.state.Busy() {
		c.mu.Unlock()
		return
	}
	c.dropEmptyCurrentLocked()
	c.releaseRoundLocked()
	c.turns = append(c.turns, model.NewErrorTurn(message))
	c.setStateLocked(StateCompleted)
	c.mu.Unlock()

	c.notifyTurns()
	c.notifyState(StateCompleted)
	c.settleIdle(gen)
}

// settleIdle performs the momentary completed -> idle transition.
func (c *Conversation) settleIdle(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.state != StateCompleted {
		c.mu.Unlock()
		return
	}
	c.setStateLocked(StateIdle)
	c.mu.Unlock()
	c.notifyState(StateIdle)
}

// =============================================================================
// LOCKED HELPERS
// =============================================================================

// ensureCurrentLocked creates the in-flight assistant turn on the first
// step that needs one.
func (c *Conversation) ensureCurrentLocked() {
	if c.current != nil {
		return
	}
	c.current = model.NewAssistantTurn()
	c.turns = append(c.turns, c.current)
}

// attachResultsLocked folds delivered tool results into the in-flight
// turn, correlating to calls by id and copying run_command's command
// string for display.
func (c *Conversation) attachResultsLocked(results []model.ToolResult) {
	if len(results) == 0 || c.current == nil {
		return
	}
	for _, r := range results {
		for _, call := range c.current.ToolCalls {
			if call.ID == r.ToolCallID && call.Name == "run_command" {
				r.Command = call.ArgumentString("command")
				break
			}
		}
		c.current.ToolResults = append(c.current.ToolResults, r)
	}
}

// dropEmptyCurrentLocked finalizes the in-flight turn with whatever it
// streamed; a turn with nothing to show is removed instead.
func (c *Conversation) dropEmptyCurrentLocked() {
	if c.current == nil {
		return
	}
	c.current.FinalizeContent(c.current.DisplayContent())
	if c.current.IsEmpty() {
		for i := len(c.turns) - 1; i >= 0; i-- {
			if c.turns[i] == c.current {
				c.turns = append(c.turns[:i], c.turns[i+1:]...)
				break
			}
		}
	}
	c.current = nil
}

// releaseRoundLocked clears everything the round held: the in-flight
// turn handle, the pending approval set, and the session id.
func (c *Conversation) releaseRoundLocked() {
	c.current = nil
	c.pending = nil
	c.sessionID = ""
	c.cancelRun = nil
}

func (c *Conversation) setStateLocked(s State) {
	c.state = s
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (c *Conversation) notifyState(s State) {
	if c.OnStateChanged != nil {
		c.OnStateChanged(s)
	}
}

func (c *Conversation) notifyTurns() {
	if c.OnTurnsChanged != nil {
		c.OnTurnsChanged()
	}
}
