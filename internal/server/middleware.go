package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/i18n"
	"github.com/desertthunder/vidtube/internal/models"
	"github.com/desertthunder/vidtube/internal/services"
)

type contextKey int

const (
	sessionKey contextKey = iota
	profileKey
	decisionKey
	translatorKey
)

// SessionFrom returns the request's session. Requests without one are signed out.
func SessionFrom(ctx context.Context) models.Session {
	s, _ := ctx.Value(sessionKey).(models.Session)
	return s
}

// ProfileFrom returns the profile the guard loaded for the request, or nil.
func ProfileFrom(ctx context.Context) *models.Profile {
	p, _ := ctx.Value(profileKey).(*models.Profile)
	return p
}

// DecisionFrom returns the guard decision that let the request through.
func DecisionFrom(ctx context.Context) guard.Decision {
	d, _ := ctx.Value(decisionKey).(guard.Decision)
	return d
}

// TranslatorFrom returns the request's translator, or nil outside [Localize].
func TranslatorFrom(ctx context.Context) *i18n.Translator {
	t, _ := ctx.Value(translatorKey).(*i18n.Translator)
	return t
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with its status and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		})
	}
}

// Localize selects a translator from the Accept-Language header.
func Localize(catalog *i18n.Catalog, fallback *i18n.Translator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := catalog.ForAcceptLanguage(r.Header.Get("Accept-Language"), fallback)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), translatorKey, t)))
		})
	}
}

// Sessions resolves the session cookie. Invalid or expired cookies are cleared and the request continues signed out.
func Sessions(tokens *TokenIssuer, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := models.SignedOut()

			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				uid, err := tokens.Parse(c.Value)
				if err != nil {
					logger.Debug("discarding session cookie", "error", err)
					ClearCookie(w)
				} else {
					session = models.SignedInAs(uid)
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
		})
	}
}

// GuardRoutes evaluates policy for every request and answers redirects with 302 Found.
//
// The profile is fetched only for signed-in viewers on non-public routes. A failed fetch is logged
// and evaluated as a missing profile.
func GuardRoutes(policy guard.Policy, profiles services.ProfileFetcher, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			in := guard.Input{Session: SessionFrom(ctx), Path: r.URL.Path}

			if in.Session.SignedIn && !policy.Public.Allows(in.Path) {
				profile, err := profiles.FetchOrCreateProfile(ctx, in.Session.UID)
				if err != nil {
					logger.Warn("profile fetch failed", "uid", in.Session.UID, "error", err)
				}
				in.Profile, in.ProfileErr = profile, err
				if profile != nil {
					ctx = context.WithValue(ctx, profileKey, profile)
				}
			}

			d := policy.Evaluate(in)
			if !d.Allowed() {
				logger.Debug("redirecting", "from", in.Path, "to", d.Redirect, "reason", d.Reason)
				http.Redirect(w, r, d.Redirect, http.StatusFound)
				return
			}

			ctx = context.WithValue(ctx, decisionKey, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
