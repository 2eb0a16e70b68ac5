package guard

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/models"
)

// Redirector issues route changes. The navigation router satisfies it.
type Redirector interface {
	Push(path string)
}

// Guard re-evaluates the current route whenever the session, profile, loading flag, or path changes.
type Guard struct {
	policy     Policy
	router     Redirector
	logger     *log.Logger
	session    models.Session
	profile    *models.Profile
	profileErr error
	loading    bool
	path       string
	last       Decision
}

// Option customizes a [Guard].
type Option func(*Guard)

// WithPolicy replaces [DefaultPolicy].
func WithPolicy(p Policy) Option {
	return func(g *Guard) { g.policy = p }
}

// WithFailClosed toggles [Policy.FailClosed] on the guard's policy.
func WithFailClosed(failClosed bool) Option {
	return func(g *Guard) { g.policy.FailClosed = failClosed }
}

// WithLogger sets the logger used for redirect and profile diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Guard that pushes redirects to router. It starts in the loading state with a signed-out session.
func New(router Redirector, opts ...Option) *Guard {
	g := &Guard{
		policy:  DefaultPolicy,
		router:  router,
		logger:  log.New(io.Discard),
		loading: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetSession records a new session. Signing out or switching uid drops the held profile.
func (g *Guard) SetSession(s models.Session) {
	if !s.SignedIn || s.UID != g.session.UID {
		g.profile = nil
		g.profileErr = nil
	}
	g.session = s
	g.evaluate()
}

// SetProfile records a fetched profile, or nil to clear it.
func (g *Guard) SetProfile(p *models.Profile) {
	g.profile = p
	g.profileErr = nil
	g.evaluate()
}

// SetProfileError records a failed profile fetch. The profile stays nil.
func (g *Guard) SetProfileError(err error) {
	g.profile = nil
	g.profileErr = err
	g.evaluate()
}

// SetLoading records whether session or profile are still resolving.
func (g *Guard) SetLoading(loading bool) {
	g.loading = loading
	g.evaluate()
}

// SetPath records the route the viewer is on.
func (g *Guard) SetPath(path string) {
	g.path = path
	g.evaluate()
}

// NeedsAgeVerification reports a signed-in viewer with a loaded, unverified profile.
func (g *Guard) NeedsAgeVerification() bool {
	return !g.loading && g.session.SignedIn && g.profile != nil && !g.profile.AgeVerified
}

// Loading reports whether the guard is waiting on session or profile.
func (g *Guard) Loading() bool { return g.loading }

// Session returns the latest session.
func (g *Guard) Session() models.Session { return g.session }

// Profile returns the latest profile, nil if absent.
func (g *Guard) Profile() *models.Profile { return g.profile }

// Decision returns the outcome of the most recent evaluation.
func (g *Guard) Decision() Decision { return g.last }

func (g *Guard) evaluate() {
	if g.loading || g.path == "" {
		return
	}

	d := g.policy.Evaluate(Input{
		Session:    g.session,
		Profile:    g.profile,
		ProfileErr: g.profileErr,
		Path:       g.path,
	})
	g.last = d

	if d.Allowed() || d.Redirect == g.path {
		return
	}

	g.logger.Debug("redirecting", "from", g.path, "to", d.Redirect, "reason", d.Reason)
	g.router.Push(d.Redirect)
}
