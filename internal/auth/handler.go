package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type ServiceAPI interface {
	Login(ctx context.Context, req LoginRequest) (json.RawMessage, error)
	Register(ctx context.Context, req RegisterRequest) (json.RawMessage, error)
	CurrentUser(ctx context.Context, token string) (*CurrentUser, error)
	Refresh(ctx context.Context, req RefreshRequest) (json.RawMessage, error)
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	session, err := h.Service.Login(r.Context(), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Message: "登录成功", Data: session})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	user, err := h.Service.Register(r.Context(), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Message: "注册成功", Data: user})
}

// CurrentUser handles GET /api/auth/user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.CurrentUser(r.Context(), transport.BearerToken(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	session, err := h.Service.Refresh(r.Context(), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Data: session})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), transport.BearerToken(r)); err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Message: "已退出登录"})
}

