package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/i18n"
	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/navigation"
	"github.com/desertthunder/vidtube/internal/services"
	"github.com/desertthunder/vidtube/internal/shared"
)

const panelWidth = 28

// Profiles loads profiles and records age verification.
type Profiles interface {
	services.ProfileFetcher
	VerifyAge(ctx context.Context, uid, dob string) (*models.Profile, error)
}

// Options configures a [Model].
type Options struct {
	Hub        *services.SessionHub
	Profiles   Profiles
	Translator *i18n.Translator
	// UID is the account the sign-in key signs in as. Empty disables signing in from the TUI.
	UID        string
	Start      string // initial route, "/" when empty
	PanelDelay time.Duration
	PlainDelay time.Duration
	FailClosed bool
	// Timer schedules route pushes. When nil, a wall-clock timer delivers expiries through the program.
	Timer  navigation.Timer
	Logger *log.Logger
}

// Model is the TUI application state. All guard and coordinator mutations happen inside Update.
type Model struct {
	ctx      context.Context
	hub      *services.SessionHub
	profiles Profiles
	tr       *i18n.Translator
	uid      string
	router   *Router
	guard    *guard.Guard
	coord    *navigation.Coordinator
	clock    *navigation.ClockTimer
	send     func(tea.Msg)
	unbind   func()
	panel    list.Model
	input    textinput.Model
	help     help.Model
	keys     keyMap
	logger   *log.Logger
	width    int
	height   int
	err      error
}

// NewModel creates a TUI model with the side panel open.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.Hub == nil || opts.Profiles == nil || opts.Translator == nil {
		return nil, fmt.Errorf("%w: tui requires a session hub, profiles, and a translator", shared.ErrMissingArgument)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	start := opts.Start
	if start == "" {
		start = guard.RouteHome
	}

	m := &Model{
		ctx:      ctx,
		hub:      opts.Hub,
		profiles: opts.Profiles,
		tr:       opts.Translator,
		uid:      opts.UID,
		logger:   logger,
		help:     help.New(),
		keys:     newKeyMap(opts.Translator),
		panel:    newPanel(opts.Translator),
	}

	m.input = textinput.New()
	m.input.Placeholder = "YYYY-MM-DD"
	m.input.CharLimit = 10

	timer := opts.Timer
	if timer == nil {
		m.clock = navigation.NewClockTimer(m.dispatch)
		timer = m.clock
	}

	panelDelay, plainDelay := opts.PanelDelay, opts.PlainDelay
	if panelDelay == 0 {
		panelDelay = navigation.DefaultPanelDelay
	}
	if plainDelay == 0 {
		plainDelay = navigation.DefaultPlainDelay
	}

	m.router = NewRouter(start, shared.WithLogger(logger, "component", "router"))
	m.guard = guard.New(m.router,
		guard.WithFailClosed(opts.FailClosed),
		guard.WithLogger(shared.WithLogger(logger, "component", "guard")))
	m.coord = navigation.NewCoordinator(m.router, timer,
		navigation.WithDelays(panelDelay, plainDelay),
		navigation.WithPanelOpen(true),
		navigation.WithLogger(shared.WithLogger(logger, "component", "navigation")))

	m.router.OnChange(m.coord.Arrived)
	m.router.OnChange(m.guard.SetPath)
	m.router.OnChange(m.syncInput)

	return m, nil
}

// SetSender routes off-loop work through send, typically [tea.Program.Send]. Call before the program starts.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// dispatch runs fn on the update loop.
func (m *Model) dispatch(fn func()) {
	if m.send == nil {
		fn()
		return
	}
	m.send(dispatchMsg(fn))
}

// Init subscribes the guard to the session hub and evaluates the starting route.
func (m *Model) Init() tea.Cmd {
	var dispatch func(func())
	if m.send != nil {
		dispatch = m.dispatch
	}

	m.unbind = services.Bind(m.ctx, m.hub, m.guard, m.profiles, services.BindOptions{
		Dispatch: dispatch,
		Logger:   shared.WithLogger(m.logger, "component", "session"),
	})
	m.guard.SetPath(m.router.CurrentPath())
	m.syncInput(m.router.CurrentPath())
	return nil
}

// Close tears down the session subscription and any pending navigation.
func (m *Model) Close() {
	if m.unbind != nil {
		m.unbind()
		m.unbind = nil
	}
	m.coord.Close()
	if m.clock != nil {
		m.clock.Stop()
	}
}

// Path is the current route.
func (m *Model) Path() string { return m.router.CurrentPath() }

// Navigation returns the coordinator's state.
func (m *Model) Navigation() navigation.State { return m.coord.State() }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.panel.SetSize(panelWidth, max(msg.Height-6, 4))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgDispatch:
			if fn, ok := msg.data.(func()); ok {
				fn()
			}
		case MsgAgeVerified:
			if v, ok := msg.data.(ageVerified); ok {
				m.handleVerified(v)
			}
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := m.input.Focused()

	switch {
	case key.Matches(msg, m.keys.force):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.quit) && !typing:
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.panel):
		m.coord.TogglePanel()
		m.syncInput(m.Path())
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.coord.ClosePanel()
		m.syncInput(m.Path())
		return m, nil
	}

	if m.coord.State().IsPanelOpen {
		if key.Matches(msg, m.keys.enter) {
			if item, ok := m.panel.SelectedItem().(navItem); ok {
				m.err = nil
				m.coord.NavigateTo(item.path)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}

	if typing {
		if key.Matches(msg, m.keys.enter) {
			return m, m.verifyAge(m.input.Value())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.session) {
		m.toggleSession()
	}
	return m, nil
}

func (m *Model) toggleSession() {
	if m.hub.Current().SignedIn {
		m.hub.SignOut()
		return
	}
	if m.uid == "" {
		m.coord.NavigateTo(guard.RouteLogin)
		return
	}
	m.hub.SignIn(m.uid)
}

// syncInput focuses the date of birth field while the verification page is showing.
func (m *Model) syncInput(path string) {
	if guard.StripQuery(path) == guard.RouteVerifyAge && !m.coord.State().IsPanelOpen {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) verifyAge(dob string) tea.Cmd {
	session := m.hub.Current()
	if !session.SignedIn {
		m.coord.NavigateTo(guard.RouteLogin)
		return nil
	}

	ctx, uid := m.ctx, session.UID
	return func() tea.Msg {
		profile, err := m.profiles.VerifyAge(ctx, uid, strings.TrimSpace(dob))
		return ageVerifiedMsg(profile, err)
	}
}

func (m *Model) handleVerified(v ageVerified) {
	if v.err != nil {
		m.logger.Warn("age verification failed", "error", v.err)
		m.err = v.err
		return
	}

	m.err = nil
	m.input.Reset()
	m.guard.SetProfile(v.profile)

	if v.profile.Underage() {
		m.coord.NavigateTo(guard.RouteUnderage)
		return
	}
	m.coord.NavigateTo(guard.RouteHome)
}

// View renders the side panel next to the current page.
func (m *Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render(m.tr.T("app_title", nil)),
		m.status(),
	)

	body := m.renderPage()
	if m.coord.State().IsPanelOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, styles.panel.Render(m.panel.View()), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, styles.help.Render(m.help.View(m.keys)))
}

func (m *Model) status() string {
	session := m.guard.Session()
	switch {
	case m.guard.Loading():
		return styles.warn.Render(m.tr.T("status_loading", nil))
	case !session.SignedIn:
		return styles.warn.Render(m.tr.T("status_signed_out", nil))
	case m.guard.NeedsAgeVerification():
		return styles.warn.Render(m.tr.T("status_needs_verification", nil))
	default:
		return styles.ok.Render(m.tr.T("status_signed_in", map[string]any{"UID": session.UID}))
	}
}

func (m *Model) renderPage() string {
	state := m.coord.State()
	if state.ShowPlaceholder() {
		return styles.page.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.help.Render(m.tr.T("placeholder_loading", map[string]any{"Path": state.DestinationURL})),
			"",
			styles.Skeleton(36, 24, 30),
		))
	}

	path := m.Path()
	lines := []string{m.tr.T("page_body", map[string]any{"Path": path})}

	switch guard.StripQuery(path) {
	case guard.RouteLogin:
		switch {
		case path == guard.RouteUnderage:
			lines = append(lines, styles.err.Render(m.tr.Reason(guard.ReasonUnderage)))
		case path == guard.RouteFailed:
			lines = append(lines, styles.err.Render(m.tr.Reason(guard.ReasonProfileFailed)))
		case !m.guard.Session().SignedIn:
			lines = append(lines, m.tr.Reason(guard.ReasonSignedOut))
		}
	case guard.RouteVerifyAge:
		lines = append(lines, m.tr.Reason(guard.ReasonUnverified), m.input.View())
	}

	if m.err != nil {
		lines = append(lines, styles.err.Render(m.err.Error()))
	}

	return styles.page.Render(strings.Join(lines, "\n\n"))
}
