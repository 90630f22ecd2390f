package handler

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/sony/gobreaker"
)

const checkTimeout = 5 * time.Second

// Pinger is any dependency that can answer a liveness ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter exposes a circuit breaker's current state.
type BreakerReporter interface {
	BreakerState() gobreaker.State
}

type HealthHandler struct {
	redis     Pinger
	db        Pinger
	upstream  BreakerReporter
	startTime time.Time
	version   string
}

// NewHealthHandler builds the probes. db may be nil when the change outbox
// is disabled; it is then left out of readiness.
func NewHealthHandler(redis Pinger, db Pinger, upstream BreakerReporter) *HealthHandler {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		redis:     redis,
		db:        db,
		upstream:  upstream,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a simple liveness check - just confirms the Go process is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

// Live is an alias for Health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready reports DOWN when a required dependency is unreachable. An open
// upstream breaker is reported but does not fail readiness, since the
// gateway still serves cached state.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)
	status := "UP"
	httpStatus := http.StatusOK

	checks["redis"] = h.ping(r.Context(), h.redis, "Redis")
	if h.db != nil {
		checks["database"] = h.ping(r.Context(), h.db, "database")
	}
	for _, c := range checks {
		if c.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	if h.upstream != nil {
		checks["upstream"] = h.checkUpstream()
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: status,
		Checks: checks,
	})
}

func (h *HealthHandler) ping(ctx context.Context, p Pinger, name string) Check {
	if p == nil {
		return Check{Status: "DOWN", Message: name + " client is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return Check{Status: "DOWN", Message: "Cannot connect to " + name}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkUpstream() Check {
	switch state := h.upstream.BreakerState(); state {
	case gobreaker.StateClosed:
		return Check{Status: "UP"}
	default:
		return Check{Status: "DEGRADED", Message: "circuit " + state.String()}
	}
}
