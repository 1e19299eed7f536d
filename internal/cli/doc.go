// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package cli provides the line-based fallback interface: a liner REPL
// for terminals (or pipes) where the full TUI is unavailable, plus the
// interactive project picker both interfaces share.
package cli
