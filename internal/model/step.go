// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package model contains the data structures for conversations and steps.
package model

// =============================================================================
// STEP STATE
// =============================================================================

// StepState identifies the phase a generation round is in. The server tags
// every streamed step with one of these values.
type StepState string

const (
	// StateGenerating means the model is producing response content.
	StateGenerating StepState = "generating"

	// StateToolApproval means the model proposed tool calls and the round is
	// paused until the user approves or denies them.
	StateToolApproval StepState = "tool_approval"

	// StateToolExecuting means approved tools are running on the server.
	StateToolExecuting StepState = "tool_executing"

	// StateCompleted terminates a round. Exactly one completed step ends
	// every round unless the transport fails first.
	StateCompleted StepState = "completed"
)

// String returns the wire representation of the state.
func (s StepState) String() string {
	return string(s)
}

// Valid reports whether the state is one the protocol defines.
func (s StepState) Valid() bool {
	switch s {
	case StateGenerating, StateToolApproval, StateToolExecuting, StateCompleted:
		return true
	}
	return false
}

// =============================================================================
// TOOL CALL / TOOL RESULT
// =============================================================================

// ToolCall is a tool invocation proposed by the model. IDs are unique within
// one generation round. Immutable once received.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ArgumentString returns a string argument by key, or "" when absent or not
// a string. Used to surface run_command's command line in the UI.
func (tc ToolCall) ArgumentString(key string) string {
	if tc.Arguments == nil {
		return ""
	}
	if v, ok := tc.Arguments[key].(string); ok {
		return v
	}
	return ""
}

// ToolResult is the outcome of one approved tool call. Denied calls produce
// a result too on the live stream (success=false, denial message), but never
// during execution.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	Success    bool   `json:"success"`

	// Command is the originating command string for run_command results,
	// copied from the paired call's arguments for display. Not on the wire.
	Command string `json:"-"`
}

// =============================================================================
// CONVERSATION STEP
// =============================================================================

// ConversationStep is the wire unit of the streaming protocol: one frame of
// the server-to-client event stream describing incremental progress of a
// generation round.
type ConversationStep struct {
	State       StepState    `json:"state"`
	Content     string       `json:"content,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
	SessionID   string       `json:"session_id,omitempty"`
	Error       string       `json:"error,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// Terminal reports whether the step ends its round.
func (s *ConversationStep) Terminal() bool {
	return s.State == StateCompleted
}

// HasToolCalls reports whether the step carries a pending tool-call set.
func (s *ConversationStep) HasToolCalls() bool {
	return len(s.ToolCalls) > 0
}
