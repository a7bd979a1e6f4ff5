package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"amonic/skydesk/internal/constants"
)

// LoginRateLimiter throttles login submissions per client IP. It sits in
// front of the per-browser lockout and protects the backend token endpoint
// from scripted bursts.
type LoginRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
}

func NewLoginRateLimiter(perSecond float64, burst int) *LoginRateLimiter {
	return &LoginRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		perSec:   rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *LoginRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.perSec, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

func (l *LoginRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.getLimiter(ip).Allow() {
			WriteAlert(w, r, http.StatusTooManyRequests, "warning", constants.MsgSlowDown)
			return
		}

		next.ServeHTTP(w, r)
	})
}
