package server

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/services"
	"github.com/desertthunder/vidtube/internal/shared"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the login limiter's memory; the table resets when exceeded.
const maxTrackedClients = 10000

// loginLimiter applies a token bucket per client address.
type loginLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether key may attempt another sign-in now.
func (l *loginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= maxTrackedClients {
			l.clients = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[key] = lim
	}
	return lim.Allow()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// AuthHandler serves sign-in, registration, sign-out, and age verification.
type AuthHandler struct {
	accounts *services.AccountService
	profiles *services.ProfileService
	tokens   *TokenIssuer
	limiter  *loginLimiter
	oauth    *OAuthHandler
	logger   *log.Logger
}

// NewAuthHandler creates an AuthHandler allowing loginRate sign-in attempts per second per client, with bursts of loginBurst.
func NewAuthHandler(accounts *services.AccountService, profiles *services.ProfileService, tokens *TokenIssuer, loginRate float64, loginBurst int, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		profiles: profiles,
		tokens:   tokens,
		limiter:  newLoginLimiter(loginRate, loginBurst),
		logger:   logger,
	}
}

// Routes returns the auth routes.
func (h *AuthHandler) Routes() []string {
	return []string{guard.RouteLogin, guard.RouteRegister, guard.RouteLogout, guard.RouteVerifyAge}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case guard.RouteLogin:
		h.login(w, r)
	case guard.RouteRegister:
		h.register(w, r)
	case guard.RouteLogout:
		h.logout(w, r)
	case guard.RouteVerifyAge:
		h.verifyAge(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	v := newView(r)
	v.OAuth = h.oauth != nil
	v.Next = r.FormValue("next")

	switch r.URL.Query().Get("error") {
	case "underage":
		v.Error = v.reason(guard.ReasonUnderage)
	case "profile":
		v.Error = v.reason(guard.ReasonProfileFailed)
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if r.URL.Query().Get("provider") == "oauth" && h.oauth != nil {
			h.oauth.Start(w, r)
			return
		}
		render(w, http.StatusOK, "login", v)
	case http.MethodPost:
		if !h.limiter.Allow(clientKey(r)) {
			h.logger.Warn("login rate limited", "client", clientKey(r))
			v.Error = v.Msg("error_rate_limited")
			render(w, http.StatusTooManyRequests, "login", v)
			return
		}

		user, err := h.accounts.Authenticate(r.Context(), r.FormValue("email"), r.FormValue("password"))
		if errors.Is(err, shared.ErrInvalidCredentials) {
			v.Error = v.Msg("error_invalid_credentials")
			render(w, http.StatusUnauthorized, "login", v)
			return
		}
		if err != nil {
			h.logger.Error("login failed", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := h.tokens.SetCookie(w, user.ID()); err != nil {
			h.logger.Error("failed to issue session", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.logger.Info("signed in", "uid", user.ID())
		http.Redirect(w, r, safeNext(v.Next), http.StatusFound)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	v := newView(r)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		render(w, http.StatusOK, "register", v)
	case http.MethodPost:
		user, err := h.accounts.Register(r.Context(), r.FormValue("email"), r.FormValue("name"), r.FormValue("password"))
		if errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, shared.ErrDuplicateEmail) {
			v.Error = v.Msg("error_invalid_input")
			render(w, http.StatusBadRequest, "register", v)
			return
		}
		if err != nil {
			h.logger.Error("registration failed", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := h.tokens.SetCookie(w, user.ID()); err != nil {
			h.logger.Error("failed to issue session", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.logger.Info("registered", "uid", user.ID())
		http.Redirect(w, r, guard.RouteVerifyAge, http.StatusFound)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	ClearCookie(w)
	http.Redirect(w, r, guard.RouteHome, http.StatusFound)
}

func (h *AuthHandler) verifyAge(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if !session.SignedIn {
		http.Redirect(w, r, guard.RouteLogin, http.StatusFound)
		return
	}

	v := newView(r)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		render(w, http.StatusOK, "verify", v)
	case http.MethodPost:
		profile, err := h.profiles.VerifyAge(r.Context(), session.UID, r.FormValue("date_of_birth"))
		if errors.Is(err, shared.ErrInvalidDateOfBirth) {
			v.Error = v.Msg("error_invalid_date_of_birth")
			render(w, http.StatusBadRequest, "verify", v)
			return
		}
		if err != nil {
			h.logger.Error("age verification failed", "uid", session.UID, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if profile.Underage() {
			http.Redirect(w, r, guard.RouteUnderage, http.StatusFound)
			return
		}
		http.Redirect(w, r, guard.RouteHome, http.StatusFound)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return guard.RouteHome
	}
	return next
}

func methodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
