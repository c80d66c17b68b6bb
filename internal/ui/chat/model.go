// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/haven-tui/internal/config"
	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/engine"
	"github.com/morganforge/haven-tui/internal/identity"
	"github.com/morganforge/haven-tui/internal/session"
	"github.com/morganforge/haven-tui/internal/ui/styles"
	"github.com/morganforge/haven-tui/internal/util"
)

// =============================================================================
// SCREENS
// =============================================================================

type screen int

const (
	screenSignIn screen = iota
	screenChat
	screenHistory
	screenProfile
)

// inputPlaceholder is shown when the live day is active.
const inputPlaceholder = "Type your message..."

// readOnlyPlaceholder is shown while viewing a historical day.
const readOnlyPlaceholder = "Read only chat"

// profileFields are the editable rows of the profile card, in display
// order. Email is shown but not editable; it comes from the identity.
var profileFields = []string{"Name", "Age", "Gender", "Avatar"}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model for haven.
type Model struct {
	cfg      *config.Config
	theme    *styles.Theme
	keys     KeyMap
	provider identity.Provider
	clock    *dayclock.Clock

	// build creates the per-sign-in session; injected so tests can
	// supply a memory-backed one.
	build func(user identity.User) (*session.Session, error)

	sess *session.Session
	user identity.User

	screen  screen
	loading bool

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	// Sign-in screen state
	signInURI  string
	signInCode string
	signInErr  error

	// History screen state
	historyIndex int

	// Profile screen state
	profileIndex int
	profileInput textinput.Model
	editingField bool

	status    string
	statusErr bool

	width, height int
	ready         bool
	quitting      bool
}

// New creates the root model. The session is built lazily after
// sign-in completes.
func New(cfg *config.Config, provider identity.Provider, clock *dayclock.Clock, build func(identity.User) (*session.Session, error)) Model {
	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.CharLimit = 2000
	input.Focus()

	profileInput := textinput.New()
	profileInput.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		cfg:          cfg,
		theme:        styles.NewTheme(),
		keys:         DefaultKeyMap(),
		provider:     provider,
		clock:        clock,
		build:        build,
		screen:       screenSignIn,
		loading:      true,
		input:        input,
		profileInput: profileInput,
		spin:         spin,
	}
	m.spin.Style = m.theme.Spinner

	if cfg.UI.Markdown {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(72)); err == nil {
			m.renderer = r
		}
	}
	return m
}

// Init starts the sign-in flow and the day rollover ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		signInCmd(m.provider),
		dayclock.TickCmd(m.clock),
		m.spin.Tick,
	)
}

// =============================================================================
// UPDATE
// =============================================================================

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		m.ready = true
		if m.sess != nil {
			m.refreshTranscript()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			if m.sess != nil {
				m.sess.Dispose()
			}
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case dayclock.TickMsg:
		cmds := []tea.Cmd{dayclock.TickCmd(m.clock)}
		if m.sess != nil && msg.Today != m.sess.Engine().Today() {
			cmds = append(cmds, rolloverCmd(m.sess, msg.Today))
		}
		return m, tea.Batch(cmds...)

	case SignInPromptMsg:
		m.signInURI = msg.VerificationURI
		m.signInCode = msg.UserCode
		return m, nil

	case SignInDoneMsg:
		if msg.Err != nil {
			// Recoverable: keep the sign-in screen up and let the user retry
			m.signInErr = msg.Err
			m.loading = false
			return m, nil
		}
		m.user = *msg.User
		m.signInErr = nil
		m.loading = true
		return m, initSessionCmd(func() (*session.Session, error) {
			return m.build(m.user)
		})

	case SessionReadyMsg:
		m.loading = false
		if msg.Err != nil {
			m.signInErr = msg.Err
			return m, nil
		}
		m.sess = msg.Session
		m.screen = screenChat
		m.setStatus("", false)
		m.layout()
		m.refreshTranscript()
		return m, nil

	case ReplyMsg:
		return m.handleReply(msg)

	case PersistDoneMsg:
		if msg.Err != nil {
			m.setStatus("Could not save "+msg.Date.String()+"; your messages are kept locally", true)
		}
		return m, nil

	case ProfileSavedMsg:
		if msg.Err != nil {
			m.setStatus("Could not save profile, try again", true)
		} else {
			m.setStatus("Profile saved", false)
		}
		return m, nil

	case RolloverDoneMsg:
		if msg.Err != nil {
			m.setStatus("Could not start the new day, will retry", true)
			return m, nil
		}
		m.setStatus("", false)
		m.refreshTranscript()
		return m, nil
	}

	return m, nil
}

// handleKey routes keystrokes to the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenSignIn:
		return m.handleSignInKey(msg)
	case screenChat:
		return m.handleChatKey(msg)
	case screenHistory:
		return m.handleHistoryKey(msg)
	case screenProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

// =============================================================================
// SIGN-IN SCREEN
// =============================================================================

func (m Model) handleSignInKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key retries after a failed sign-in
	if m.signInErr != nil && !m.loading {
		m.signInErr = nil
		m.loading = true
		return m, signInCmd(m.provider)
	}
	return m, nil
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.History):
		m.screen = screenHistory
		m.historyIndex = 0
		return m, nil

	case key.Matches(msg, keys.Profile):
		m.screen = screenProfile
		m.profileIndex = 0
		m.editingField = false
		return m, nil

	case key.Matches(msg, keys.Today):
		if m.sess != nil {
			m.selectDate(m.sess.Engine().Today())
		}
		return m, nil

	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, keys.Submit):
		return m.submitMessage()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitMessage runs the optimistic send and kicks off delivery plus
// the first persist.
func (m Model) submitMessage() (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	eng := m.sess.Engine()
	text := m.input.Value()

	id, err := eng.Send(text)
	switch {
	case errors.Is(err, engine.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, engine.ErrReadOnlyDay):
		m.setStatus("This day is read-only; press C-t to return to today", true)
		return m, nil
	case errors.Is(err, engine.ErrReplyInFlight):
		m.setStatus("Waiting for the previous reply", true)
		return m, nil
	case err != nil:
		m.setStatus(err.Error(), true)
		return m, nil
	}

	m.input.Reset()
	m.setStatus("", false)
	m.refreshTranscript()
	m.syncInputState()

	// The persist target is bound now, before any await point
	date := eng.Today()
	return m, tea.Batch(
		deliverCmd(m.sess, id, strings.TrimSpace(text)),
		persistCmd(m.sess, date),
		m.spin.Tick,
	)
}

// handleReply settles the placeholder and persists the day it landed on.
func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, nil
	}
	eng := m.sess.Engine()

	var date dayclock.Date
	var ok bool
	if msg.Err != nil {
		date, ok = eng.Fail(msg.ID)
	} else {
		date, ok = eng.Resolve(msg.ID, msg.Reply)
	}
	if !ok {
		return m, nil
	}

	m.refreshTranscript()
	m.syncInputState()
	return m, persistCmd(m.sess, date)
}

// =============================================================================
// HISTORY SCREEN
// =============================================================================

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	dates := m.sess.Engine().Dates()

	switch {
	case key.Matches(msg, keys.Back):
		m.screen = screenChat
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.historyIndex > 0 {
			m.historyIndex--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.historyIndex < len(dates)-1 {
			m.historyIndex++
		}
		return m, nil

	case key.Matches(msg, keys.Today):
		m.screen = screenChat
		m.selectDate(m.sess.Engine().Today())
		return m, nil

	case key.Matches(msg, keys.Submit):
		if m.historyIndex < len(dates) {
			m.screen = screenChat
			m.selectDate(dates[m.historyIndex])
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// PROFILE SCREEN
// =============================================================================

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	editor := m.sess.Engine().Profile()

	if m.editingField {
		switch {
		case key.Matches(msg, keys.Back):
			m.editingField = false
			m.profileInput.Blur()
			return m, nil
		case key.Matches(msg, keys.Submit):
			m.stageField(m.profileInput.Value())
			m.editingField = false
			m.profileInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.profileInput, cmd = m.profileInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Back):
		// Leaving the card discards anything not saved
		editor.Discard()
		m.screen = screenChat
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.profileIndex > 0 {
			m.profileIndex--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.profileIndex < len(profileFields)-1 {
			m.profileIndex++
		}
		return m, nil

	case key.Matches(msg, keys.Edit):
		m.editingField = true
		m.profileInput.SetValue(m.currentFieldValue())
		m.profileInput.Focus()
		return m, nil

	case key.Matches(msg, keys.Save):
		if !editor.Dirty() {
			m.setStatus("Nothing to save", false)
			return m, nil
		}
		return m, saveProfileCmd(m.sess)
	}
	return m, nil
}

// currentFieldValue returns the staged value of the selected row.
func (m *Model) currentFieldValue() string {
	p := m.sess.Engine().Profile().Staged()
	switch profileFields[m.profileIndex] {
	case "Name":
		return p.Name
	case "Age":
		return p.Age
	case "Gender":
		return p.Gender
	case "Avatar":
		return p.AvatarPath
	}
	return ""
}

// stageField stages an edit of the selected row.
func (m *Model) stageField(value string) {
	editor := m.sess.Engine().Profile()
	switch profileFields[m.profileIndex] {
	case "Name":
		editor.StageName(value)
	case "Age":
		editor.StageAge(value)
	case "Gender":
		editor.StageGender(value)
	case "Avatar":
		editor.StageAvatar(value)
	}
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// layout sizes the viewport and input to the terminal.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	headerHeight := 2
	inputHeight := 3
	statusHeight := 1
	vpHeight := m.height - headerHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.width, vpHeight)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 6
}

// selectDate moves the viewer to date and refreshes the chat surface.
// The engine only rejects dates missing from history; surface that the
// same way every other failure is surfaced instead of dropping it.
func (m *Model) selectDate(date dayclock.Date) {
	if err := m.sess.Engine().SelectDate(date); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.refreshTranscript()
	m.syncInputState()
}

// refreshTranscript re-renders the active transcript into the viewport
// and follows the bottom.
func (m *Model) refreshTranscript() {
	if m.sess == nil || m.viewport.Width == 0 {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// syncInputState flips the input between live and read-only rendering.
func (m *Model) syncInputState() {
	if m.sess == nil {
		return
	}
	eng := m.sess.Engine()
	if eng.Active() == eng.Today() {
		m.input.Placeholder = inputPlaceholder
		m.input.Focus()
	} else {
		m.input.Placeholder = readOnlyPlaceholder
		m.input.Reset()
		m.input.Blur()
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = util.TruncateRunes(text, 120)
	m.statusErr = isErr
}
