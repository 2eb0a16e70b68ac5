// package server serves vidtube pages behind the route guard
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/i18n"
	"github.com/desertthunder/vidtube/internal/services"
	"github.com/desertthunder/vidtube/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows which path patterns it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router registers handlers behind a shared middleware stack.
type Router interface {
	Use(middleware ...Middleware)                                 // Use adds middleware to the router's middleware stack
	Handle(path string, handler http.Handler, methods ...string) // Handle registers a handler for path, optionally restricted to methods
	Handler(handler Handler)                                      // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request)             // ServeHTTP implements http.Handler for the entire router
}

// Deps are the collaborators the server's handlers use.
type Deps struct {
	Accounts *services.AccountService
	Profiles *services.ProfileService
	Catalog  *i18n.Catalog
	Logger   *log.Logger
}

// Server is the vidtube web front-end.
type Server struct {
	addr   string
	router *BasicRouter
	logger *log.Logger
}

// New builds a Server from configuration. Every route runs through request logging, language selection,
// session cookies, and the route guard, in that order.
func New(cfg *shared.Config, deps Deps) (*Server, error) {
	if deps.Accounts == nil || deps.Profiles == nil || deps.Catalog == nil {
		return nil, fmt.Errorf("%w: server requires accounts, profiles, and a message catalog", shared.ErrMissingArgument)
	}

	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	tokens, err := NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		return nil, err
	}

	fallback, err := deps.Catalog.Translator(cfg.I18n.Language)
	if err != nil {
		return nil, err
	}

	policy := guard.DefaultPolicy
	policy.FailClosed = cfg.Guard.FailClosed

	router := NewBasicRouter()
	router.Use(
		RequestLogger(logger),
		Localize(deps.Catalog, fallback),
		Sessions(tokens, logger),
		GuardRoutes(policy, deps.Profiles, logger),
	)

	auth := NewAuthHandler(deps.Accounts, deps.Profiles, tokens, cfg.Auth.LoginRate, cfg.Auth.LoginBurst, logger)
	if oauthConfigured(cfg.Auth.OAuth) {
		oauth := NewOAuthHandler(cfg.Auth.OAuth, deps.Accounts, tokens, logger)
		auth.oauth = oauth
		router.Handler(oauth)
	}
	router.Handler(auth)

	pages := NewPageHandler()
	for _, route := range pages.Routes() {
		router.Handle(route, pages, http.MethodGet, http.MethodHead)
	}

	return &Server{addr: cfg.Server.Addr(), router: router, logger: logger}, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the listen address.
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func oauthConfigured(c shared.OAuthConfig) bool {
	return c.ClientID != "" && c.AuthURL != "" && c.TokenURL != "" && c.UserInfoURL != ""
}
