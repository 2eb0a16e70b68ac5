package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/services"
	"github.com/desertthunder/vidtube/internal/shared"
	"golang.org/x/oauth2"
)

// StateCookie holds the CSRF state between the provider redirect and the callback.
const StateCookie = "vidtube_oauth_state"

const stateTTL = 10 * time.Minute

// userInfo is the subset of the provider's userinfo response used for sign-in.
type userInfo struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
}

// OAuthHandler signs viewers in through an OAuth2 authorization code flow.
//
// [OAuthHandler.Start] redirects to the provider; the callback exchanges the code, reads the
// provider's userinfo endpoint, and signs the matching account in.
type OAuthHandler struct {
	config      *oauth2.Config
	userInfoURL string
	accounts    *services.AccountService
	tokens      *TokenIssuer
	logger      *log.Logger
	// client, when set, is used for token exchange and userinfo requests.
	client *http.Client
}

// NewOAuthConfig converts provider settings into an [oauth2.Config].
func NewOAuthConfig(c shared.OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.AuthURL,
			TokenURL: c.TokenURL,
		},
		RedirectURL: c.RedirectURI,
		Scopes:      c.Scopes,
	}
}

// NewOAuthHandler creates an OAuthHandler for the configured provider.
func NewOAuthHandler(c shared.OAuthConfig, accounts *services.AccountService, tokens *TokenIssuer, logger *log.Logger) *OAuthHandler {
	return &OAuthHandler{
		config:      NewOAuthConfig(c),
		userInfoURL: c.UserInfoURL,
		accounts:    accounts,
		tokens:      tokens,
		logger:      logger,
	}
}

// Routes returns the callback route.
func (h *OAuthHandler) Routes() []string {
	return []string{guard.RouteCallback}
}

// Start stores a fresh state token and redirects to the provider's consent page.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     guard.RouteCallback,
		MaxAge:   int(stateTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusFound)
}

// ServeHTTP handles the provider callback.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	c, err := r.Cookie(StateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || c.Value == "" || state != c.Value {
		h.logger.Warn("oauth callback with invalid state")
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: StateCookie, Path: guard.RouteCallback, MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("oauth authorization failed",
			"error", r.URL.Query().Get("error"),
			"description", r.URL.Query().Get("error_description"))
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, h.client)
	}

	token, err := h.config.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		http.Error(w, "Token exchange failed", http.StatusBadGateway)
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.logger.Error("userinfo request failed", "error", err)
		http.Error(w, "Could not read account details", http.StatusBadGateway)
		return
	}

	user, err := h.accounts.EnsureOAuthUser(ctx, info.Email, info.Name)
	if err != nil {
		h.logger.Error("oauth account provisioning failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.tokens.SetCookie(w, user.ID()); err != nil {
		h.logger.Error("failed to issue session", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("signed in with oauth", "uid", user.ID())
	http.Redirect(w, r, guard.RouteHome, http.StatusFound)
}

func (h *OAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*userInfo, error) {
	resp, err := h.config.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned %s", shared.ErrAuthFailed, resp.Status)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", shared.ErrAuthFailed)
	}
	if info.EmailVerified != nil && !*info.EmailVerified {
		return nil, fmt.Errorf("%w: provider email is unverified", shared.ErrAuthFailed)
	}
	return &info, nil
}
