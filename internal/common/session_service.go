package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/logging"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionData is the server-side record behind the session cookie.
type SessionData struct {
	SessionID string            `json:"session_id"`
	UserID    int               `json:"user_id"`
	Email     string            `json:"email"`
	RoleID    int               `json:"role_id"`
	Tokens    map[string]string `json:"tokens"`
	LoginAt   time.Time         `json:"login_at"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func (s *SessionData) Role() constants.Role {
	return constants.Role(s.RoleID)
}

// SessionStore persists SessionData by id.
type SessionStore interface {
	Save(ctx context.Context, data *SessionData, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (*SessionData, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions as JSON under "session:<id>".
type RedisSessionStore struct {
	redis *redis.Client
}

var _ SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{redis: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, data *SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, string(constants.CachePrefixSession)+data.SessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*SessionData, error) {
	val, err := s.redis.Get(ctx, string(constants.CachePrefixSession)+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &data, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, string(constants.CachePrefixSession)+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SessionService creates and resolves sessions on top of a SessionStore.
type SessionService struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionService(store SessionStore, ttl time.Duration) *SessionService {
	return &SessionService{store: store, ttl: ttl, now: time.Now}
}

// CreateSession stores a new session. A positive maxTTL (the access token's
// remaining lifetime) shortens the configured TTL.
func (s *SessionService) CreateSession(ctx context.Context, userID, roleID int, email string, tokens map[string]string, maxTTL time.Duration) (*Session, error) {
	ttl := s.ttl
	if maxTTL > 0 && maxTTL < ttl {
		ttl = maxTTL
	}

	now := s.now()
	data := &SessionData{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Email:     email,
		RoleID:    roleID,
		Tokens:    make(map[string]string, len(tokens)),
		LoginAt:   now,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	for k, v := range tokens {
		data.Tokens[k] = v
	}

	if err := s.store.Save(ctx, data, ttl); err != nil {
		logging.Error("Failed to store session", "user_id", userID, "error", err)
		return nil, err
	}
	logging.Debug("Session created", "session_id", data.SessionID, "user_id", userID, "ttl", ttl.String())
	return &Session{store: s.store, data: data}, nil
}

// GetSession resolves a session id. Expired sessions are deleted.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	data, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.now().After(data.ExpiresAt) {
		_ = s.store.Delete(ctx, sessionID)
		return nil, ErrSessionExpired
	}
	return &Session{store: s.store, data: data}, nil
}

// Session is one resolved session with token get/set/clear operations.
type Session struct {
	store SessionStore
	data  *SessionData
}

func (s *Session) ID() string { return s.data.SessionID }

func (s *Session) UserID() int { return s.data.UserID }

func (s *Session) Email() string { return s.data.Email }

func (s *Session) Role() constants.Role { return s.data.Role() }

func (s *Session) LoginAt() time.Time { return s.data.LoginAt }

func (s *Session) ExpiresAt() time.Time { return s.data.ExpiresAt }

// Token returns the stored token for key, or "".
func (s *Session) Token(key string) string {
	return s.data.Tokens[key]
}

func (s *Session) AccessToken() string { return s.Token(constants.TokenKeyAccess) }

// SetToken stores a token and persists the session for its remaining TTL.
func (s *Session) SetToken(ctx context.Context, key, value string) error {
	if s.data.Tokens == nil {
		s.data.Tokens = map[string]string{}
	}
	s.data.Tokens[key] = value
	return s.persist(ctx)
}

// ClearTokens removes every token and deletes the session record.
func (s *Session) ClearTokens(ctx context.Context) error {
	s.data.Tokens = map[string]string{}
	return s.store.Delete(ctx, s.data.SessionID)
}

func (s *Session) persist(ctx context.Context) error {
	ttl := time.Until(s.data.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}
	return s.store.Save(ctx, s.data, ttl)
}
