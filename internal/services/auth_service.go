package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
	"amonic/skydesk/internal/providers"
)

// ErrSignedOut marks a failure after which the session was cleared.
var ErrSignedOut = errors.New("signed out")

// AuthAPI is the part of the reservation backend the login flow uses.
type AuthAPI interface {
	ObtainToken(ctx context.Context, email, password string) (*dtos.TokenResponse, error)
	CurrentUser(ctx context.Context, token string) (*dtos.User, error)
	Logout(ctx context.Context, token string) error
	TestError(ctx context.Context, token string) error
}

// LockoutError is returned while a browser is locked out of the login form.
// Triggered is set on the failure that started the lockout.
type LockoutError struct {
	Remaining time.Duration
	Triggered bool
}

func (e *LockoutError) Error() string {
	if e.Triggered {
		return fmt.Sprintf(constants.MsgTooManyAttempts, e.Seconds())
	}
	return fmt.Sprintf(constants.MsgWaitBeforeRetry, e.Seconds())
}

// Seconds is the remaining lockout rounded up to whole seconds.
func (e *LockoutError) Seconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

// LoginResult is a successful login.
type LoginResult struct {
	Session  *common.Session
	User     *dtos.User
	Redirect string
}

type AuthService struct {
	api      AuthAPI
	sessions *common.SessionService
	guard    *LoginGuard
	views    *ViewRegistry
	metrics  *metrics.MetricsRegistry
	now      func() time.Time
}

func NewAuthService(api AuthAPI, sessions *common.SessionService, guard *LoginGuard, views *ViewRegistry, m *metrics.MetricsRegistry) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		guard:    guard,
		views:    views,
		metrics:  m,
		now:      time.Now,
	}
}

// LockedFor reports the remaining lockout of a browser.
func (s *AuthService) LockedFor(clientKey string) time.Duration {
	return s.guard.Remaining(clientKey)
}

// Login exchanges credentials for tokens, resolves the user's role and
// stores a new session. Only failures the backend answered count towards
// the lockout; transport errors do not.
func (s *AuthService) Login(ctx context.Context, clientKey, email, password string) (*LoginResult, error) {
	if left := s.guard.Remaining(clientKey); left > 0 {
		return nil, &LockoutError{Remaining: left}
	}

	user, tokens, err := s.authenticate(ctx, email, password)
	if err != nil {
		if apiErr, ok := providers.AsAPIError(err); ok && apiErr.HasResponse() {
			if locked := s.guard.Fail(clientKey); locked > 0 {
				logging.Warn("Login lockout triggered", "client", clientKey, "lockout", locked.String())
				return nil, &LockoutError{Remaining: locked, Triggered: true}
			}
		}
		logging.Info("Login failed", "email", email, "error", err)
		return nil, err
	}

	var maxTTL time.Duration
	if claims, err := auth.InspectAccessToken(tokens.Access); err != nil {
		logging.Debug("Access token not inspectable", "error", err)
	} else if left := claims.Remaining(s.now()); left > 0 {
		maxTTL = left
	}

	session, err := s.sessions.CreateSession(ctx, user.ID, user.RoleID, user.Email, map[string]string{
		constants.TokenKeyAccess:  tokens.Access,
		constants.TokenKeyRefresh: tokens.Refresh,
	}, maxTTL)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.guard.Succeed(clientKey)
	if s.metrics != nil {
		s.metrics.SessionsCreatedTotal.Inc()
	}
	logging.Info("User logged in", "user_id", user.ID, "role", constants.Role(user.RoleID).String())

	return &LoginResult{
		Session:  session,
		User:     user,
		Redirect: constants.Role(user.RoleID).HomePath(),
	}, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*dtos.User, *dtos.TokenResponse, error) {
	tokens, err := s.api.ObtainToken(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.api.CurrentUser(ctx, tokens.Access)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout asks the backend to end the session. The local session is only
// cleared once the backend confirmed.
func (s *AuthService) Logout(ctx context.Context, session *common.Session) error {
	if err := s.api.Logout(ctx, session.AccessToken()); err != nil {
		logging.Error("Logout failed", "session_id", session.ID(), "error", err)
		return err
	}
	s.views.Drop(session.ID())
	if err := session.ClearTokens(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// TestError calls the backend's failure endpoint. When it fails, as it is
// meant to, the session's tokens are cleared and ErrSignedOut is returned.
func (s *AuthService) TestError(ctx context.Context, session *common.Session) error {
	err := s.api.TestError(ctx, session.AccessToken())
	if err == nil {
		return nil
	}
	logging.Warn("Test error raised", "session_id", session.ID(), "error", err)
	s.views.Drop(session.ID())
	if clearErr := session.ClearTokens(ctx); clearErr != nil {
		logging.Error("Failed to clear session", "session_id", session.ID(), "error", clearErr)
	}
	return fmt.Errorf("%w: %v", ErrSignedOut, err)
}

// LoginMessage is the text shown on the login form for a failed login.
func LoginMessage(err error) string {
	var lock *LockoutError
	if errors.As(err, &lock) {
		return lock.Error()
	}
	apiErr, ok := providers.AsAPIError(err)
	if !ok || !apiErr.HasResponse() {
		return constants.MsgUnexpectedError
	}
	var body dtos.BackendMessage
	if json.Unmarshal([]byte(apiErr.Details), &body) == nil {
		if text := body.Text(); text != "" {
			return text
		}
	}
	return constants.MsgInvalidCredentials
}
