package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"vitalplan/internal/domain"
)

// ErrNoSession is returned by RestoreSession when there is nothing to
// restore.
var ErrNoSession = errors.New("no stored session")

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	var tok tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, creds, &tok); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("login failed: empty access token")
	}
	if err := c.tokens.SetToken(tok.AccessToken); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Register creates the account and logs in with the same credentials.
func (c *Client) Register(ctx context.Context, reg Registration) (domain.User, error) {
	var dto userDTO
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, reg, &dto); err != nil {
		return domain.User{}, fmt.Errorf("registration failed: %w", err)
	}
	if err := c.Login(ctx, Credentials{Email: reg.Email, Password: reg.Password}); err != nil {
		return domain.User{}, err
	}
	return dto.toDomain(), nil
}

// Logout drops the stored token. The backend keeps no session state.
func (c *Client) Logout() error {
	return c.tokens.ClearToken()
}

// HasSession reports whether a token is stored.
func (c *Client) HasSession() bool {
	tok, err := c.tokens.Token()
	return err == nil && tok != ""
}

// RestoreSession loads the current user for a stored token. A token whose
// exp claim has already passed is cleared without a network call.
func (c *Client) RestoreSession(ctx context.Context) (domain.User, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to read token: %w", err)
	}
	if tok == "" {
		return domain.User{}, ErrNoSession
	}

	if tokenExpired(tok, time.Now()) {
		zap.S().Infow("stored token expired, clearing session")
		if err := c.tokens.ClearToken(); err != nil {
			return domain.User{}, fmt.Errorf("failed to clear expired token: %w", err)
		}
		return domain.User{}, ErrNoSession
	}

	return c.Me(ctx)
}

// tokenExpired inspects the exp claim without verifying the signature. The
// backend stays the authority; this only avoids a call that would 401.
// Tokens that are not JWTs, or carry no exp, are treated as live.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
