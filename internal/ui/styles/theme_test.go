// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package styles

import "testing"

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Labels must render their text; a zero style would drop bolding but
	// never the content.
	if got := theme.UserLabel.Render("You"); got == "" {
		t.Error("UserLabel render empty")
	}
	if got := theme.ApprovalTitle.Render("Tool approval"); got == "" {
		t.Error("ApprovalTitle render empty")
	}
}

func TestThemeSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d", theme.Width, theme.Height)
	}
}
