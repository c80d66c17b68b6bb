// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/model"
	"github.com/morganforge/haven-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting haven..."
	}

	switch m.screen {
	case screenSignIn:
		return m.viewSignIn()
	case screenHistory:
		return m.viewHistory()
	case screenProfile:
		return m.viewProfile()
	default:
		return m.viewChat()
	}
}

// =============================================================================
// SIGN-IN SCREEN
// =============================================================================

func (m Model) viewSignIn() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.SignInTitle.Render("haven"))
	b.WriteString("\n\n")

	switch {
	case m.signInErr != nil:
		b.WriteString(t.StatusError.Render("Sign-in failed: " + m.signInErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(t.SignInDetail.Render("Press any key to try again"))
	case m.signInCode != "":
		b.WriteString(t.SignInDetail.Render("To sign in, open"))
		b.WriteString("\n")
		b.WriteString(t.SignInCode.Render(m.signInURI))
		b.WriteString("\n")
		b.WriteString(t.SignInDetail.Render("and enter code"))
		b.WriteString("\n")
		b.WriteString(t.SignInCode.Render(m.signInCode))
	default:
		b.WriteString(m.spin.View())
		b.WriteString(t.SignInDetail.Render(" Signing you in..."))
	}

	box := t.SignInBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderHeader shows the avatar badge, the user, and the day in view.
func (m Model) renderHeader() string {
	t := m.theme
	eng := m.sess.Engine()

	badge := t.AvatarBadge.Render(m.user.Initial())
	name := m.user.DisplayName
	if name == "" {
		name = m.user.Email
	}
	name = util.TruncateWidth(name, m.width/2)

	day := dayclock.Label(eng.Active(), eng.Today(), m.clock.Yesterday())
	left := badge + " " + t.HeaderTitle.Render(name)
	right := t.HeaderSubtitle.Render(day)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return t.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderTranscript renders the active day's messages as bubbles.
func (m Model) renderTranscript() string {
	eng := m.sess.Engine()
	msgs := eng.ActiveMessages()
	if len(msgs) == 0 {
		return m.theme.ThinkingText.Render("No messages yet. Say hello!")
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage picks the bubble style for one message.
func (m Model) renderMessage(msg model.Message) string {
	t := m.theme
	maxWidth := m.viewport.Width - 10
	if maxWidth < 20 {
		maxWidth = 20
	}

	switch {
	case msg.Sender == model.SenderUser:
		line := t.UserBubble.MaxWidth(maxWidth).Render(msg.Text)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, line)

	case msg.Pending:
		return t.PendingBubble.Render(m.spin.View() + " " + msg.Text)

	case msg.Failed:
		return t.FailedBubble.MaxWidth(maxWidth).Render(msg.Text)

	default:
		text := msg.Text
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(text); err == nil {
				text = strings.TrimRight(rendered, "\n")
			}
		}
		return t.AssistantBubble.MaxWidth(maxWidth).Render(text)
	}
}

// renderInput draws the input row, muted when the day is read-only.
func (m Model) renderInput() string {
	t := m.theme
	eng := m.sess.Engine()
	if eng.Active() != eng.Today() {
		return t.InputContainer.Width(m.width).Render(
			t.InputReadOnly.Render(readOnlyPlaceholder))
	}
	return t.InputContainer.Width(m.width).Render(m.input.View())
}

// renderStatusBar shows either the transient status or the shortcuts.
func (m Model) renderStatusBar() string {
	t := m.theme
	if m.status != "" {
		if m.statusErr {
			return t.StatusBar.Width(m.width).Render(t.StatusError.Render(m.status))
		}
		return t.StatusBar.Width(m.width).Render(m.status)
	}

	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, t.ShortcutKey.Render(h.Key)+" "+t.ShortcutDesc.Render(h.Desc))
	}
	return t.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// HISTORY SCREEN
// =============================================================================

func (m Model) viewHistory() string {
	t := m.theme
	eng := m.sess.Engine()
	dates := eng.Dates()
	today := eng.Today()
	yesterday := m.clock.Yesterday()

	var b strings.Builder
	b.WriteString(t.HeaderTitle.Render("Chat history"))
	b.WriteString("\n\n")

	for i, date := range dates {
		label := dayclock.Label(date, today, yesterday)
		count := len(eng.Messages(date))
		line := util.PadRight(label, 16) + t.ShortcutDesc.Render(plural(count, "message"))

		switch {
		case i == m.historyIndex:
			b.WriteString(t.HistoryItemSelected.Render(line))
		case date == today:
			b.WriteString(t.HistoryItemToday.Render(line))
		default:
			b.WriteString(t.HistoryItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutDesc.Render("Enter open · C-t today · Esc back"))

	panel := t.HistoryPanel.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// =============================================================================
// PROFILE SCREEN
// =============================================================================

func (m Model) viewProfile() string {
	t := m.theme
	editor := m.sess.Engine().Profile()
	p := editor.Staged()

	var b strings.Builder
	b.WriteString(t.AvatarBadge.Render(m.user.Initial()))
	b.WriteString(" ")
	b.WriteString(t.HeaderTitle.Render("Your profile"))
	if editor.Dirty() {
		b.WriteString("  ")
		b.WriteString(t.ProfileDirty.Render("unsaved changes"))
	}
	b.WriteString("\n\n")

	values := []string{p.Name, p.Age, p.Gender, p.AvatarPath}
	for i, field := range profileFields {
		label := t.ProfileLabel.Render(field)
		var value string
		if m.editingField && i == m.profileIndex {
			value = m.profileInput.View()
		} else if i == m.profileIndex {
			value = t.ProfileEditing.Render(model.Field(values[i]))
		} else {
			value = t.ProfileValue.Render(model.Field(values[i]))
		}
		b.WriteString(label + " " + value + "\n")
	}

	// Email is identity-owned, shown read-only
	b.WriteString(t.ProfileLabel.Render("Email") + " " + t.ProfileValue.Render(model.Field(p.Email)))
	b.WriteString("\n\n")
	b.WriteString(t.ShortcutDesc.Render("e edit · Enter apply · C-s save · Esc discard"))

	card := t.ProfileCard.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

// =============================================================================
// HELPERS
// =============================================================================

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
