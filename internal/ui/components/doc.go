// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package components provides UI components for the ai-cli TUI: the turn
// renderer, the tool approval prompt, tool output panels, and the small
// chrome pieces (spinner, status bar, welcome screen).
package components
