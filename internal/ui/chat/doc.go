// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package chat provides the chat view for the TUI.
//
// The view owns a conversation.Conversation and renders its turn list in
// a viewport; state machine callbacks are relayed into the Bubble Tea
// loop as messages, so all model mutation stays on the event loop.
package chat
