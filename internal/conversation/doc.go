// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package conversation owns the client-side state machine for one chat
// view: it drives generation rounds from the server's step stream, pauses
// rounds for tool approval, and maintains the ordered turn list.
//
// A round moves idle -> generating -> (tool_approval -> tool_executing)*
// -> completed, where completed is momentary and settles back to idle.
// The turn list and the pending approval set are owned exclusively by the
// Conversation; callers observe changes through callbacks and mutate only
// through its methods.
package conversation
