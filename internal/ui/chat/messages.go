// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package chat

import (
	"github.com/Andriykkk/ai-cli/internal/config"
	"github.com/Andriykkk/ai-cli/internal/conversation"
	"github.com/Andriykkk/ai-cli/internal/model"
)

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// TurnsChangedMsg signals that the turn list mutated and the transcript
// needs re-rendering.
type TurnsChangedMsg struct{}

// StateChangedMsg reports a conversation state transition.
type StateChangedMsg struct {
	State conversation.State
}

// ApprovalPendingMsg delivers a new pending tool-approval set.
type ApprovalPendingMsg struct {
	Approval *conversation.Approval
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a configuration reloaded from disk while the
// program runs. Relayed through program.Send so the model applies it on
// the update loop, never from the watcher goroutine.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// HistoryLoadedMsg delivers the reconstructed transcript on screen load.
// FromCache is set when the server was unreachable and the offline mirror
// supplied the records instead.
type HistoryLoadedMsg struct {
	Turns     []*model.Turn
	FromCache bool
	Err       error
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
