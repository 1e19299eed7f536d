// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package storage provides the local history cache for ai-cli.
//
// The cache mirrors the server's chat_history table into a SQLite
// database under ~/.ai-cli so previously fetched transcripts remain
// readable while the server is unreachable. It is a read-through mirror,
// not a second source of truth: the server wins on any difference.
package storage
