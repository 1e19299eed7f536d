// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// HEADER / STATUS
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	StatusBar   lipgloss.Style
	StatusState lipgloss.Style
	StatusError lipgloss.Style
	ShortcutKey lipgloss.Style
	ShortcutDsc lipgloss.Style

	// ==========================================================================
	// TURNS
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	TurnBody       lipgloss.Style
	TurnTimestamp  lipgloss.Style
	ErrorTurn      lipgloss.Style
	CanceledTurn   lipgloss.Style

	// ==========================================================================
	// TOOL CALLS / RESULTS
	// ==========================================================================

	ToolHeader   lipgloss.Style
	ToolCommand  lipgloss.Style
	ToolSuccess  lipgloss.Style
	ToolFailure  lipgloss.Style
	ToolOutput   lipgloss.Style

	// ==========================================================================
	// APPROVAL PROMPT
	// ==========================================================================

	ApprovalBox      lipgloss.Style
	ApprovalTitle    lipgloss.Style
	ApprovalItem     lipgloss.Style
	ApprovalSelected lipgloss.Style
	ApprovalApproved lipgloss.Style
	ApprovalDenied   lipgloss.Style
	ApprovalHint     lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	InputText      lipgloss.Style

	// ==========================================================================
	// SPINNER / WELCOME
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	WelcomeBox   lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeInfo  lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)
	t.StatusState = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)
	t.ShortcutDsc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)
	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)
	t.TurnBody = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.TurnTimestamp = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.ErrorTurn = lipgloss.NewStyle().
		Foreground(Rose)
	t.CanceledTurn = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ToolHeader = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.ToolCommand = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Padding(0, 1)
	t.ToolSuccess = lipgloss.NewStyle().
		Foreground(Emerald)
	t.ToolFailure = lipgloss.NewStyle().
		Foreground(Rose)
	t.ToolOutput = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(1)

	t.ApprovalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(1, 2)
	t.ApprovalTitle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.ApprovalItem = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.ApprovalSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Blue).
		Bold(true)
	t.ApprovalApproved = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.ApprovalDenied = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.ApprovalHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)
	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)
	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(1, 3).
		Align(lipgloss.Center)
	t.WelcomeTitle = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)
	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	return t
}

// SetSize records the current terminal dimensions on the theme.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
