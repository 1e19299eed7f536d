// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package util provides small shared helpers for the ai-cli client:
// rune- and width-aware string truncation, number formatting for display,
// atomic file writes for exports, and the diagnostic file logger.
//
// Nothing in this package knows about conversations or the wire protocol;
// it must stay dependency-free apart from go-runewidth.
package util
