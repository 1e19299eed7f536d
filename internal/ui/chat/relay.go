// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Andriykkk/ai-cli/internal/conversation"
)

// Sender is the subset of *tea.Program the relay needs. Tests substitute
// a channel-backed fake.
type Sender interface {
	Send(msg tea.Msg)
}

// BindConversation relays the state machine's callbacks into the Bubble
// Tea loop. The callbacks fire on the stream goroutine; Send is the one
// thread-safe entry point into the program, so every mutation still lands
// on the event loop.
func BindConversation(conv *conversation.Conversation, p Sender) {
	conv.OnTurnsChanged = func() {
		p.Send(TurnsChangedMsg{})
	}
	conv.OnStateChanged = func(s conversation.State) {
		p.Send(StateChangedMsg{State: s})
	}
	conv.OnApprovalPending = func(a *conversation.Approval) {
		p.Send(ApprovalPendingMsg{Approval: a})
	}
}
