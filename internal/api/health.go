package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"amonic/skydesk/internal/common"
	"amonic/skydesk/internal/models/entities"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

const healthTimeout = 2 * time.Second

// HealthCheckHandler handles GET /ui/api/health. Each check is pinged in
// name order; any failure reports the portal as down with 503.
func HealthCheckHandler(checks map[string]Pinger, upSince time.Time) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		health := entities.PortalHealth{
			Probes:  make(map[string]entities.ProbeResult, len(names)),
			UpSince: upSince.UTC(),
			Uptime:  time.Since(upSince).Round(time.Second).String(),
		}
		for _, name := range names {
			health.Probes[name] = probe(ctx, checks[name])
		}

		code := http.StatusOK
		health.State = "ok"
		if !health.Healthy() {
			health.State = "down"
			code = http.StatusServiceUnavailable
		}
		common.RespondSuccess(w, start, health.State, health, code)
	}
}

func probe(ctx context.Context, p Pinger) entities.ProbeResult {
	began := time.Now()
	err := p.Ping(ctx)
	res := entities.ProbeResult{State: "ok", LatencyMS: time.Since(began).Milliseconds()}
	if err != nil {
		res.State = "down"
		res.Detail = err.Error()
	}
	return res
}
