package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/i18n"
	"github.com/desertthunder/vidtube/internal/repositories"
	"github.com/desertthunder/vidtube/internal/services"
	"github.com/desertthunder/vidtube/internal/shared"
	tu "github.com/desertthunder/vidtube/internal/testing"
)

func newTestModel(t *testing.T, uid string) (*Model, *tu.ManualTimer) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	catalog, err := i18n.NewCatalog()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	tr, _ := catalog.Translator("en")

	timer := tu.NewManualTimer()
	m, err := NewModel(context.Background(), Options{
		Hub:        services.NewSessionHub(),
		Profiles:   services.NewProfileService(repositories.NewProfileRepository(db)),
		Translator: tr,
		UID:        uid,
		Timer:      timer,
	})
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Init()
	t.Cleanup(m.Close)
	return m, timer
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// navigate selects the panel entry for path and confirms it.
func navigate(t *testing.T, m *Model, path string) {
	t.Helper()
	if !m.Navigation().IsPanelOpen {
		press(m, "tab")
	}
	for i, r := range navRoutes {
		if r.path == path {
			m.panel.Select(i)
			press(m, "enter")
			return
		}
	}
	t.Fatalf("no panel entry for %s", path)
}

func TestNewModel(t *testing.T) {
	if _, err := NewModel(context.Background(), Options{}); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

func TestSignedOutNavigation(t *testing.T) {
	m, timer := newTestModel(t, "")

	if !m.Navigation().IsPanelOpen {
		t.Fatal("expected the panel to start open")
	}

	press(m, "down")
	if m.panel.Index() != 1 {
		t.Errorf("expected cursor on second entry, got %d", m.panel.Index())
	}

	navigate(t, m, "/settings")

	state := m.Navigation()
	if state.IsPanelOpen || !state.IsNavigating || !state.IsPageTransitioning || state.DestinationURL != "/settings" {
		t.Errorf("unexpected state while the panel closes: %+v", state)
	}
	if timer.Delays[0] != 400*time.Millisecond {
		t.Errorf("expected panel delay, got %v", timer.Delays[0])
	}
	if !strings.Contains(m.View(), "Loading /settings...") {
		t.Error("expected placeholder while transitioning")
	}
	if m.Path() != guard.RouteHome {
		t.Errorf("expected route to wait for the timer, got %s", m.Path())
	}

	timer.Advance(400 * time.Millisecond)

	if m.Path() != guard.RouteLogin {
		t.Errorf("expected guard redirect to sign-in, got %s", m.Path())
	}
	if m.Navigation().IsPageTransitioning {
		t.Error("expected transition flags to clear after arrival")
	}
	want := []string{guard.RouteHome, "/settings", guard.RouteLogin}
	if got := m.router.History(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected history %v, got %v", want, got)
	}


	press(m, "s")
	if m.guard.Session().SignedIn {
		t.Error("sign-in key must not sign in without an account")
	}
}

func TestAgeVerificationFlow(t *testing.T) {
	m, timer := newTestModel(t, "uid-1")

	press(m, "esc", "s")
	if !m.guard.Session().SignedIn {
		t.Fatal("expected sign-in key to sign in")
	}
	if !m.guard.NeedsAgeVerification() {
		t.Fatal("expected a new profile to need verification")
	}
	if !strings.Contains(m.View(), "Verify your age") {
		t.Error("expected verification status in header")
	}

	navigate(t, m, "/settings")
	timer.Advance(400 * time.Millisecond)

	if m.Path() != guard.RouteVerifyAge {
		t.Fatalf("expected redirect to verification, got %s", m.Path())
	}
	if !m.input.Focused() {
		t.Fatal("expected date of birth field to take focus")
	}

	typeText(m, "1990-03-02")
	cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected verification command")
	}
	m.Update(cmd())

	if m.guard.NeedsAgeVerification() {
		t.Error("expected profile to be verified")
	}
	if got := timer.Delays[len(timer.Delays)-1]; got != 150*time.Millisecond {
		t.Errorf("expected plain delay after verification, got %v", got)
	}

	timer.Advance(150 * time.Millisecond)
	if m.Path() != guard.RouteHome {
		t.Errorf("expected to land home, got %s", m.Path())
	}

	navigate(t, m, "/settings")
	timer.Advance(400 * time.Millisecond)
	if m.Path() != "/settings" {
		t.Errorf("expected verified adult to reach /settings, got %s", m.Path())
	}

	press(m, "s")
	if m.guard.Session().SignedIn {
		t.Error("expected second press to sign out")
	}
	if m.Path() != guard.RouteLogin {
		t.Errorf("expected sign-out to redirect to sign-in, got %s", m.Path())
	}
}

func TestUnderageFlow(t *testing.T) {
	m, timer := newTestModel(t, "uid-2")

	press(m, "esc", "s")
	navigate(t, m, guard.RouteVerifyAge)
	timer.Advance(400 * time.Millisecond)

	typeText(m, time.Now().AddDate(-10, 0, 0).Format("2006-01-02"))
	m.Update(press(m, "enter")())
	timer.Advance(150 * time.Millisecond)

	if m.Path() != guard.RouteUnderage {
		t.Fatalf("expected underage redirect, got %s", m.Path())
	}
	if !strings.Contains(m.View(), "not old enough") {
		t.Error("expected underage explanation")
	}

	navigate(t, m, "/library")
	timer.Advance(400 * time.Millisecond)
	if m.Path() != guard.RouteUnderage {
		t.Errorf("expected underage viewer to be sent back, got %s", m.Path())
	}
}

func TestInvalidDateOfBirth(t *testing.T) {
	m, timer := newTestModel(t, "uid-3")

	press(m, "esc", "s")
	navigate(t, m, guard.RouteVerifyAge)
	timer.Advance(400 * time.Millisecond)

	typeText(m, "1990-13-45")
	m.Update(press(m, "enter")())

	if !errors.Is(m.err, shared.ErrInvalidDateOfBirth) {
		t.Errorf("expected ErrInvalidDateOfBirth, got %v", m.err)
	}
	if m.Path() != guard.RouteVerifyAge {
		t.Errorf("expected to stay on verification, got %s", m.Path())
	}
}

func TestDispatch(t *testing.T) {
	m, _ := newTestModel(t, "")

	var sent []tea.Msg
	m.SetSender(func(msg tea.Msg) { sent = append(sent, msg) })

	ran := false
	m.dispatch(func() { ran = true })
	if ran {
		t.Fatal("dispatched work must wait for the update loop")
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}

	m.Update(sent[0])
	if !ran {
		t.Error("expected dispatched work to run inside Update")
	}
}

func TestQuit(t *testing.T) {
	m, timer := newTestModel(t, "")

	navigate(t, m, "/trending")
	if timer.Pending() != 1 {
		t.Fatalf("expected a pending push, got %d", timer.Pending())
	}

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if timer.Pending() != 0 {
		t.Error("expected quitting to cancel the pending push")
	}
}

func TestRouterRedirectDepth(t *testing.T) {
	r := NewRouter("/", shared.NewLogger(nil))
	r.OnChange(func(path string) { r.Push(path + "x") })

	r.Push("/a")
	if got := len(r.History()); got != maxRedirectDepth+1 {
		t.Errorf("expected %d entries, got %d", maxRedirectDepth+1, got)
	}
}

func TestRouterRedirectStopsStaleListeners(t *testing.T) {
	r := NewRouter("/", shared.NewLogger(nil))

	var seen []string
	r.OnChange(func(path string) {
		if path == "/settings" {
			r.Push(guard.RouteVerifyAge)
		}
	})
	r.OnChange(func(path string) { seen = append(seen, path) })

	r.Push("/settings")

	if r.CurrentPath() != guard.RouteVerifyAge {
		t.Fatalf("expected redirect to %s, got %s", guard.RouteVerifyAge, r.CurrentPath())
	}
	if len(seen) != 1 || seen[0] != guard.RouteVerifyAge {
		t.Errorf("expected later listeners to see only the redirect, got %v", seen)
	}
}

func TestRedirectFocusesDateOfBirth(t *testing.T) {
	m, timer := newTestModel(t, "uid-1")
	press(m, "esc", "s")

	navigate(t, m, "/library")
	timer.Advance(400 * time.Millisecond)

	if m.Path() != guard.RouteVerifyAge {
		t.Fatalf("expected redirect to verification, got %s", m.Path())
	}
	if !m.input.Focused() {
		t.Fatal("expected date of birth field to keep focus after the redirect")
	}

	typeText(m, "1990")
	if got := m.input.Value(); got != "1990" {
		t.Errorf("expected typed date to reach the field, got %q", got)
	}
}

func TestMislabeledVerifiedMessage(t *testing.T) {
	m, _ := newTestModel(t, "uid-1")

	m.Update(Msg{kind: MsgAgeVerified, data: "not a result"})
	if m.guard.Session().SignedIn {
		t.Error("expected mislabeled message to be ignored")
	}
}
