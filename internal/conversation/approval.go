// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package conversation

import (
	"errors"
	"sync"

	"github.com/Andriykkk/ai-cli/internal/model"
)

// ErrNoDecision is returned when submitting an approval set with every
// call still undecided.
var ErrNoDecision = errors.New("decide at least one tool call before submitting")

// =============================================================================
// DECISIONS
// =============================================================================

// Decision is the user's verdict on one proposed tool call.
type Decision int

const (
	Undecided Decision = iota
	Approved
	Denied
)

func (d Decision) String() string {
	switch d {
	case Approved:
		return "approved"
	case Denied:
		return "denied"
	default:
		return "undecided"
	}
}

// =============================================================================
// APPROVAL SET
// =============================================================================

// Approval holds one round's pending tool calls and the per-call decision
// map. A new Approval replaces the previous one when the model requests a
// further batch of tools within the same round.
type Approval struct {
	mu        sync.Mutex
	sessionID string
	calls     []model.ToolCall
	decisions map[string]Decision
}

// NewApproval creates an approval set with every call undecided.
func NewApproval(sessionID string, calls []model.ToolCall) *Approval {
	decisions := make(map[string]Decision, len(calls))
	for _, call := range calls {
		decisions[call.ID] = Undecided
	}
	return &Approval{
		sessionID: sessionID,
		calls:     append([]model.ToolCall(nil), calls...),
		decisions: decisions,
	}
}

// SessionID returns the paused round's session id.
func (a *Approval) SessionID() string {
	return a.sessionID
}

// Calls returns the proposed tool calls in presentation order.
func (a *Approval) Calls() []model.ToolCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.ToolCall(nil), a.calls...)
}

// Decision returns the current verdict for one call id.
func (a *Approval) Decision(id string) Decision {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.decisions[id]
}

// Toggle cycles one call's decision undecided -> approved -> denied ->
// undecided. Unknown ids are ignored.
func (a *Approval) Toggle(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.decisions[id]
	if !ok {
		return
	}
	a.decisions[id] = (d + 1) % 3
}

// ApproveAll marks every call approved.
func (a *Approval) ApproveAll() {
	a.setAll(Approved)
}

// DenyAll marks every call denied.
func (a *Approval) DenyAll() {
	a.setAll(Denied)
}

// Clear resets every call to undecided.
func (a *Approval) Clear() {
	a.setAll(Undecided)
}

func (a *Approval) setAll(d Decision) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id := range a.decisions {
		a.decisions[id] = d
	}
}

// Decided reports whether at least one call has a non-undecided verdict,
// the minimum required to submit.
func (a *Approval) Decided() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, d := range a.decisions {
		if d != Undecided {
			return true
		}
	}
	return false
}

// Partition splits call ids into approved and denied lists in call order.
// Undecided ids appear in neither list.
func (a *Approval) Partition() (approved, denied []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	approved = []string{}
	denied = []string{}
	for _, call := range a.calls {
		switch a.decisions[call.ID] {
		case Approved:
			approved = append(approved, call.ID)
		case Denied:
			denied = append(denied, call.ID)
		}
	}
	return approved, denied
}
