package diagnostic

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

// Pinger reaches the backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ConfigFlags struct {
	HasSupabaseURL    bool   `json:"hasSupabaseUrl"`
	HasAnonKey        bool   `json:"hasAnonKey"`
	HasServiceRoleKey bool   `json:"hasServiceRoleKey"`
	HasJWTSecret      bool   `json:"hasJwtSecret"`
	HasDatabase       bool   `json:"hasDatabase"`
	StorageDriver     string `json:"storageDriver"`
	CaptchaStore      string `json:"captchaStore"`
}

type BackendCheck struct {
	Reachable  bool   `json:"reachable"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

type Response struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	Environment string        `json:"environment"`
	Runtime     string        `json:"runtime"`
	Version     string        `json:"version"`
	Timestamp   time.Time     `json:"timestamp"`
	Config      ConfigFlags   `json:"config"`
	Backend     *BackendCheck `json:"backend,omitempty"`
}

type Handler struct {
	*transport.BaseHandler
	backend Pinger
	flags   ConfigFlags
	env     string
	now     func() time.Time
}

// NewHandler reports presence flags only; secret values never leave the process.
func NewHandler(baseHandler *transport.BaseHandler, backend Pinger, cfg *internal.Config) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		backend:     backend,
		env:         cfg.Environment,
		now:         time.Now,
		flags: ConfigFlags{
			HasSupabaseURL:    cfg.Supabase.URL != "",
			HasAnonKey:        cfg.Supabase.AnonKey != "",
			HasServiceRoleKey: cfg.Supabase.ServiceRoleKey != "",
			HasJWTSecret:      cfg.Supabase.JWTSecret != "",
			HasDatabase:       cfg.Database.Enabled(),
			StorageDriver:     cfg.Storage.Driver,
			CaptchaStore:      cfg.Captcha.Store,
		},
	}
}

// Test handles GET /api/test. With ?check=backend it also pings the backend;
// an unreachable backend is reported in the body, not as a failure status.
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Success:     true,
		Message:     "API 运行正常",
		Environment: h.env,
		Runtime:     internal.Runtime,
		Version:     internal.Version,
		Timestamp:   h.now().UTC(),
		Config:      h.flags,
	}

	if r.URL.Query().Get("check") == "backend" && h.backend != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		err := h.backend.Ping(ctx)
		check := &BackendCheck{Reachable: err == nil, DurationMs: time.Since(start).Milliseconds()}
		if err != nil {
			check.Error = err.Error()
		}
		resp.Backend = check
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
