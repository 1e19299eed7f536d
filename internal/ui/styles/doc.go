// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package styles provides the visual styling system for the ai-cli TUI.
//
// All colors use Lip Gloss AdaptiveColor so the same theme reads well on
// light and dark terminals; the Theme detects the terminal's color
// capability through termenv and carries every style the views use.
package styles
