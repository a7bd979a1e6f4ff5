package common

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"amonic/skydesk/internal/constants"
)

// MemorySessionStore keeps sessions in process memory. Used in development
// and tests; sessions are lost on restart.
type MemorySessionStore struct {
	cache *cache.Cache
}

var _ SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	return &MemorySessionStore{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (m *MemorySessionStore) Save(ctx context.Context, data *SessionData, ttl time.Duration) error {
	cp := *data
	cp.Tokens = make(map[string]string, len(data.Tokens))
	for k, v := range data.Tokens {
		cp.Tokens[k] = v
	}
	m.cache.Set(string(constants.CachePrefixSession)+data.SessionID, &cp, ttl)
	return nil
}

func (m *MemorySessionStore) Load(ctx context.Context, sessionID string) (*SessionData, error) {
	v, ok := m.cache.Get(string(constants.CachePrefixSession) + sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	stored := v.(*SessionData)
	cp := *stored
	cp.Tokens = make(map[string]string, len(stored.Tokens))
	for k, val := range stored.Tokens {
		cp.Tokens[k] = val
	}
	return &cp, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	m.cache.Delete(string(constants.CachePrefixSession) + sessionID)
	return nil
}
