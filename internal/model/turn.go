// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package model contains the data structures for conversations and steps.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE
// =============================================================================

// Role identifies the sender of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleTool:
		return "Tool"
	default:
		return string(r)
	}
}

// =============================================================================
// TURN
// =============================================================================

// Turn is one client-visible message in the rendered conversation.
//
// User turns are created locally and never mutated. An assistant turn is
// created on the first step of a generation round and is mutable only while
// that round is in flight: content streams in via AppendContent and is
// frozen by FinalizeContent; tool calls and results are attached as the
// round delivers them.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`

	// IsError marks a terminal error turn (model-reported or transport).
	IsError bool `json:"is_error,omitempty"`

	// Canceled marks the locally synthesized "canceled by user" turn.
	Canceled bool `json:"canceled,omitempty"`

	// Streaming state, live rounds only. Not persisted.
	InFlight      bool            `json:"-"`
	streamContent strings.Builder `json:"-"`
}

// NewUserTurn creates an immutable user turn.
func NewUserTurn(content string) *Turn {
	return &Turn{
		ID:        newTurnID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantTurn creates the in-flight assistant turn for a new round.
func NewAssistantTurn() *Turn {
	return &Turn{
		ID:        newTurnID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		InFlight:  true,
	}
}

// NewUserHistoryTurn creates a user turn with a timestamp taken from a
// persisted record rather than the local clock.
func NewUserHistoryTurn(content string, ts time.Time) *Turn {
	return &Turn{
		ID:        newTurnID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: ts,
	}
}

// NewAssistantHistoryTurn creates a finalized assistant turn, used when
// reconstructing persisted transcripts.
func NewAssistantHistoryTurn(content string, ts time.Time) *Turn {
	return &Turn{
		ID:        newTurnID(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: ts,
	}
}

// NewErrorTurn creates a terminal error turn from a model-reported or
// transport failure message.
func NewErrorTurn(message string) *Turn {
	return &Turn{
		ID:        newTurnID(),
		Role:      RoleAssistant,
		Content:   message,
		Timestamp: time.Now(),
		IsError:   true,
	}
}

// NewCanceledTurn creates the locally synthesized turn appended when the
// user cancels a round.
func NewCanceledTurn() *Turn {
	return &Turn{
		ID:        newTurnID(),
		Role:      RoleAssistant,
		Content:   "Generation canceled by user.",
		Timestamp: time.Now(),
		Canceled:  true,
	}
}

// =============================================================================
// TURN METHODS
// =============================================================================

// AppendContent appends streamed content to an in-flight turn. No-op once
// the turn is finalized.
func (t *Turn) AppendContent(content string) {
	if t.InFlight {
		t.streamContent.WriteString(content)
	}
}

// FinalizeContent freezes the turn with the authoritative final content
// from a completed step. The streamed increments are discarded, not
// concatenated: the completed step's content is the whole value.
func (t *Turn) FinalizeContent(content string) {
	if !t.InFlight {
		return
	}
	t.Content = content
	t.streamContent.Reset()
	t.InFlight = false
}

// DisplayContent returns what the UI should render right now: the streamed
// prefix while in flight, the frozen content afterwards.
func (t *Turn) DisplayContent() string {
	if t.InFlight {
		return t.streamContent.String()
	}
	return t.Content
}

// HasToolCalls reports whether the turn carries tool calls.
func (t *Turn) HasToolCalls() bool {
	return len(t.ToolCalls) > 0
}

// IsEmpty reports whether the turn has no content at all.
func (t *Turn) IsEmpty() bool {
	return t.Content == "" && t.streamContent.Len() == 0
}

// Preview returns a single-line truncated preview of the turn content.
func (t *Turn) Preview(maxRunes int) string {
	content := t.DisplayContent()
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// =============================================================================
// HELPERS
// =============================================================================

// newTurnID creates a unique turn ID.
func newTurnID() string {
	return "turn_" + uuid.NewString()
}
