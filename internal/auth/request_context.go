package auth

import (
	"context"

	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
)

type contextKey string

var (
	userClaimsKey contextKey = "user_claims"
	sessionKey    contextKey = "session"
	requestIDKey  contextKey = "request_id"
	themeKey      contextKey = "theme"
	traceKey      contextKey = "trace"
)

// RequestTrace collects who served a request. Outer middleware installs it
// and reads it back once the handler chain returns.
type RequestTrace struct {
	SessionID string
	UserID    int
	Role      constants.Role
}

func WithTrace(ctx context.Context) (context.Context, *RequestTrace) {
	t := &RequestTrace{}
	return context.WithValue(ctx, traceKey, t), t
}

func GetTrace(ctx context.Context) *RequestTrace {
	t, _ := ctx.Value(traceKey).(*RequestTrace)
	return t
}

func SetUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

func GetUserClaims(ctx context.Context) UserClaims {
	val := ctx.Value(userClaimsKey)
	if claims, ok := val.(UserClaims); ok {
		return claims
	}
	return nil
}

// SetSession stores the resolved session and its claims in ctx.
func SetSession(ctx context.Context, s *common.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey, s)
	if t := GetTrace(ctx); t != nil {
		t.SessionID, t.UserID, t.Role = s.ID(), s.UserID(), s.Role()
	}
	return SetUserClaims(ctx, &SessionClaims{Session: s})
}

func GetSession(ctx context.Context) *common.Session {
	if s, ok := ctx.Value(sessionKey).(*common.Session); ok {
		return s
	}
	return nil
}

// AccessToken returns the session's access token, or "" without a session.
func AccessToken(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.AccessToken()
	}
	return ""
}

// SessionID returns the session id, or "" without a session.
func SessionID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.ID()
	}
	return ""
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func SetTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey, theme)
}

// GetTheme returns the theme stored by the theme middleware, or "light".
func GetTheme(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey).(string); ok && theme != "" {
		return theme
	}
	return "light"
}
