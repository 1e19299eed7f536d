// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package history rebuilds conversation turns from the server's persisted
// chat records.
//
// The server flattens each conversation round into a single row whose
// message column is either plain user text with a response column (legacy
// rows) or a JSON array of role-tagged entries (rows from rounds that used
// tools). Reconstruct turns that flattened log back into the ordered,
// tool-call-correlated turn list the chat view renders.
package history
