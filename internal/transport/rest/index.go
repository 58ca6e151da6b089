package rest

import (
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type IndexResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Version   string              `json:"version"`
	Runtime   string              `json:"runtime"`
	Endpoints map[string][]string `json:"endpoints"`
}

var endpoints = map[string][]string{
	"jobs":         {"GET /api/jobs", "GET /api/jobs/:id"},
	"departments":  {"GET /api/departments", "GET /api/departments/:id"},
	"applications": {"POST /api/applications/submit", "GET /api/applications", "PATCH /api/applications/:id/status"},
	"auth": {
		"POST /api/auth/login",
		"POST /api/auth/register",
		"POST /api/auth/refresh",
		"GET /api/auth/user",
		"POST /api/auth/logout",
	},
	"upload": {
		"POST /api/upload/resume",
		"POST /api/upload/avatar",
		"POST /api/upload/signed-url",
		"DELETE /api/upload/delete/:path",
	},
	"notifications": {
		"GET /api/notifications",
		"GET /api/notifications/unread-count",
		"POST /api/notifications",
		"PATCH /api/notifications/:id/read",
		"PATCH /api/notifications/read-all",
		"DELETE /api/notifications/:id",
	},
	"messages": {
		"GET /api/messages",
		"GET /api/messages/unread-count",
		"GET /api/messages/:id",
		"POST /api/messages",
		"PATCH /api/messages/:id",
		"DELETE /api/messages/:id",
	},
	"captcha": {"POST /api/captcha/generate", "POST /api/captcha/verify"},
	"users":   {"GET /api/users/me", "PATCH /api/users/me/profile"},
	"system":  {"GET /api/test", "GET /health", "GET /ping", "GET /openapi.yml", "GET /swagger/"},
}

type IndexHandler struct {
	*transport.BaseHandler
}

func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, IndexResponse{
		Success:   true,
		Message:   "招聘平台 API 网关",
		Version:   internal.Version,
		Runtime:   internal.Runtime,
		Endpoints: endpoints,
	})
}

func (h *IndexHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	env := internal.ErrRouteNotFound.ToEnvelope()
	env.Path = r.URL.Path
	h.WriteJSON(w, http.StatusNotFound, env)
}

func (h *IndexHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.WriteError(w, r, internal.NewMethodNotAllowedError(r.Method))
}
