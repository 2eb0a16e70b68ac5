package guard

import (
	"strings"

	"github.com/desertthunder/vidtube/internal/models"
)

// Reason explains a [Decision].
type Reason int

const (
	ReasonAllowed Reason = iota
	ReasonPublic
	ReasonProfileLoading
	ReasonSignedOut
	ReasonUnverified
	ReasonUnderage
	ReasonProfileFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonAllowed:
		return "allowed"
	case ReasonPublic:
		return "public"
	case ReasonProfileLoading:
		return "profile_loading"
	case ReasonSignedOut:
		return "signed_out"
	case ReasonUnverified:
		return "age_unverified"
	case ReasonUnderage:
		return "underage"
	case ReasonProfileFailed:
		return "profile_failed"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating a route. An empty Redirect means the route is allowed.
type Decision struct {
	Redirect string
	Reason   Reason
}

// Allowed reports whether the viewer may stay on the route.
func (d Decision) Allowed() bool { return d.Redirect == "" }

func allow(r Reason) Decision { return Decision{Reason: r} }

func redirect(to string, r Reason) Decision { return Decision{Redirect: to, Reason: r} }

// Input is everything a [Policy] looks at.
type Input struct {
	Session    models.Session
	Profile    *models.Profile // nil until fetched
	ProfileErr error           // last profile fetch error, if any
	Path       string
}

// Policy configures route evaluation.
type Policy struct {
	Public     AllowList
	Unverified AllowList
	// FailClosed sends signed-in viewers whose profile fetch errored back to sign-in
	// instead of treating the missing profile as still loading.
	FailClosed bool
}

// DefaultPolicy uses [PublicRoutes] and [UnverifiedRoutes] and treats failed profile fetches as loading.
var DefaultPolicy = Policy{Public: PublicRoutes, Unverified: UnverifiedRoutes}

// Evaluate applies [DefaultPolicy] to the session, profile, and path.
func Evaluate(session models.Session, profile *models.Profile, path string) Decision {
	return DefaultPolicy.Evaluate(Input{Session: session, Profile: profile, Path: path})
}

// Evaluate decides whether in.Path is reachable. It has no side effects.
func (p Policy) Evaluate(in Input) Decision {
	path := StripQuery(in.Path)

	if p.Public.Allows(path) {
		return allow(ReasonPublic)
	}

	if !in.Session.SignedIn {
		return redirect(RouteLogin, ReasonSignedOut)
	}

	if in.Profile == nil {
		if p.FailClosed && in.ProfileErr != nil {
			return redirect(RouteFailed, ReasonProfileFailed)
		}
		return allow(ReasonProfileLoading)
	}

	if !in.Profile.AgeVerified {
		if p.Unverified.Allows(path) {
			return allow(ReasonPublic)
		}
		return redirect(RouteVerifyAge, ReasonUnverified)
	}

	if in.Profile.Underage() {
		return redirect(RouteUnderage, ReasonUnderage)
	}

	return allow(ReasonAllowed)
}

// StripQuery drops any query string or fragment from a route.
func StripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i]
	}
	return path
}
