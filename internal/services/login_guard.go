package services

import (
	"sync"
	"time"

	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/constants"
	"amonic/skydesk/internal/metrics"
)

// loginState is the per-browser failure counter.
type loginState struct {
	Failures    int
	LockedUntil time.Time
}

// LoginGuard counts consecutive login failures per browser and locks the
// browser out once the limit is reached. Reaching the limit resets the
// counter, so the next lockout needs another full run of failures.
type LoginGuard struct {
	cache       common.CacheInterface
	maxAttempts int
	lockout     time.Duration
	retention   time.Duration
	metrics     *metrics.MetricsRegistry
	now         func() time.Time

	mu sync.Mutex
}

func NewLoginGuard(cache common.CacheInterface, maxAttempts int, lockout time.Duration, m *metrics.MetricsRegistry) *LoginGuard {
	return &LoginGuard{
		cache:       cache,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		retention:   24 * time.Hour,
		metrics:     m,
		now:         time.Now,
	}
}

func guardKey(clientKey string) string {
	return string(constants.CachePrefixLoginClient) + clientKey
}

func (g *LoginGuard) state(clientKey string) loginState {
	if v, ok := g.cache.Get(guardKey(clientKey)); ok {
		if st, ok := v.(loginState); ok {
			return st
		}
	}
	return loginState{}
}

// Remaining returns how long the browser stays locked out, or zero.
func (g *LoginGuard) Remaining(clientKey string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.state(clientKey)
	if left := st.LockedUntil.Sub(g.now()); left > 0 {
		return left
	}
	return 0
}

// Failures returns the current consecutive failure count.
func (g *LoginGuard) Failures(clientKey string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state(clientKey).Failures
}

// Fail records one failed attempt. It returns the lockout duration when this
// failure triggered one.
func (g *LoginGuard) Fail(clientKey string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.state(clientKey)
	st.Failures++
	if g.metrics != nil {
		g.metrics.LoginFailuresTotal.Inc()
	}

	var locked time.Duration
	if st.Failures >= g.maxAttempts {
		st.Failures = 0
		st.LockedUntil = g.now().Add(g.lockout)
		locked = g.lockout
		if g.metrics != nil {
			g.metrics.LoginLockoutsTotal.Inc()
		}
	}
	g.cache.Set(guardKey(clientKey), st, g.retention)
	return locked
}

// Succeed clears the browser's counter.
func (g *LoginGuard) Succeed(clientKey string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache.Delete(guardKey(clientKey))
}
