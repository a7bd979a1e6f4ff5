package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the fields the portal reads from a backend access token.
type AccessClaims struct {
	UserID    int
	TokenType string
	ExpiresAt time.Time
}

// Remaining returns the token's lifetime left at now, or zero when the token
// has no expiry.
func (c *AccessClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt.IsZero() {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// InspectAccessToken parses a backend JWT without verifying its signature.
// The portal does not hold the signing key; the backend stays the authority
// and this is only used to bound session lifetime.
func InspectAccessToken(token string) (*AccessClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	out := &AccessClaims{}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	switch v := claims["user_id"].(type) {
	case float64:
		out.UserID = int(v)
	case string:
		fmt.Sscanf(v, "%d", &out.UserID)
	}
	if tt, ok := claims["token_type"].(string); ok {
		out.TokenType = tt
	}
	if out.TokenType != "" && out.TokenType != "access" {
		return nil, errors.New("not an access token")
	}
	return out, nil
}
