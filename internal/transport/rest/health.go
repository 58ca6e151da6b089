package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// Checker is one readiness dependency: the backend, the database.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function, e.g. (*sql.DB).PingContext.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	*transport.BaseHandler
	checks map[string]Checker
}

// NewHealthHandler ignores nil checkers so optional components can be passed as-is.
func NewHealthHandler(base *transport.BaseHandler, checks map[string]Checker) *HealthHandler {
	active := make(map[string]Checker, len(checks))
	for name, c := range checks {
		if c != nil {
			active[name] = c
		}
	}
	return &HealthHandler{BaseHandler: base, checks: active}
}

// Ping is the liveness probe.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health is the readiness probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.checks)),
	}

	for name, c := range h.checks {
		start := time.Now()
		err := c.Ping(ctx)
		entry := CheckEntry{
			Status:     HealthHealthy,
			CheckedAt:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			entry.Status = HealthUnhealthy
			entry.Message = err.Error()
			resp.Status = HealthUnhealthy
		}
		resp.Components[name] = entry
	}
	resp.CheckedAt = time.Now()

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, statusCode, resp)
}
