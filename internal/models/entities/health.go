package entities

import "time"

// ProbeResult is the outcome of pinging one dependency of the portal.
type ProbeResult struct {
	State     string `json:"state"`
	Detail    string `json:"detail,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// PortalHealth is the body of the health endpoint.
type PortalHealth struct {
	State   string                 `json:"state"`
	Probes  map[string]ProbeResult `json:"probes"`
	UpSince time.Time              `json:"up_since"`
	Uptime  string                 `json:"uptime"`
}

// Healthy reports whether every probe succeeded.
func (h PortalHealth) Healthy() bool {
	for _, p := range h.Probes {
		if p.State != "ok" {
			return false
		}
	}
	return true
}
