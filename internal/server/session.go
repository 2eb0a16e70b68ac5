package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/vidtube/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "vidtube_session"

// Claims are the session token claims: the registered set plus the signed-in uid.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. Tokens expire ttl after issue.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: auth.jwt_secret", shared.ErrMissingConfig)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: auth.token_ttl_minutes must be positive", shared.ErrInvalidConfig)
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for uid.
func (t *TokenIssuer) Issue(uid string) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        shared.GenerateID(),
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: uid,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its uid.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", shared.ErrTokenExpired
	case err != nil:
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	case !token.Valid || claims.UserID == "":
		return "", shared.ErrInvalidToken
	}

	return claims.UserID, nil
}

// SetCookie issues a token for uid and stores it in the session cookie.
func (t *TokenIssuer) SetCookie(w http.ResponseWriter, uid string) error {
	token, err := t.Issue(uid)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(t.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
