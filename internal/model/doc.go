// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package model contains the data structures shared by every surface of the
// ai-cli client: wire-level conversation steps as streamed by the server,
// tool calls and their results, and the client-visible Turn that the UIs
// render.
//
// A Turn is the only mutable entity in the model, and only while an
// assistant generation round is in flight: its content is appended to as
// steps arrive and frozen by FinalizeContent when the round completes.
// Everything else is immutable once received.
package model
