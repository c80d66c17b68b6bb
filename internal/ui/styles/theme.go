// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	PendingBubble   lipgloss.Style
	FailedBubble    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputReadOnly    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// HISTORY PANEL STYLES
	// ==========================================================================

	HistoryPanel        lipgloss.Style
	HistoryItem         lipgloss.Style
	HistoryItemSelected lipgloss.Style
	HistoryItemToday    lipgloss.Style

	// ==========================================================================
	// PROFILE CARD STYLES
	// ==========================================================================

	ProfileCard     lipgloss.Style
	ProfileLabel    lipgloss.Style
	ProfileValue    lipgloss.Style
	ProfileEditing  lipgloss.Style
	ProfileDirty    lipgloss.Style
	AvatarBadge     lipgloss.Style

	// ==========================================================================
	// SIGN-IN SCREEN STYLES
	// ==========================================================================

	SignInBox    lipgloss.Style
	SignInTitle  lipgloss.Style
	SignInDetail lipgloss.Style
	SignInCode   lipgloss.Style

	// ==========================================================================
	// SPINNER STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.PendingBubble = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		MarginRight(4).
		Italic(true)

	t.FailedBubble = lipgloss.NewStyle().
		Foreground(FailedBubbleFg).
		Background(FailedBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 2).
		MarginRight(4)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.InputReadOnly = lipgloss.NewStyle().
		Foreground(TextMuted).
		Strikethrough(false).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// History panel
	t.HistoryPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.HistoryItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.HistoryItemSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.HistoryItemToday = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true).
		Padding(0, 1)

	// Profile card
	t.ProfileCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.ProfileLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(10)

	t.ProfileValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ProfileEditing = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ProfileDirty = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.AvatarBadge = lipgloss.NewStyle().
		Background(AvatarBg).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	// Sign-in screen
	t.SignInBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.SignInTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.SignInDetail = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SignInCode = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme's layout dimensions on terminal resize.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
