package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	userDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/user"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type ServiceAPI interface {
	Me(ctx context.Context, caller *internal.Principal) (*Me, error)
	UpdateProfile(ctx context.Context, caller *internal.Principal, req UpdateProfileRequest) (*userDatamodel.Profile, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetCurrentUser handles GET /api/users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, internal.ErrMissingToken)
		return
	}

	me, err := h.Service.Me(r.Context(), caller)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, Response{Success: true, Data: me})
}

// UpdateProfile handles PATCH /api/users/me/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, internal.ErrMissingToken)
		return
	}

	var req UpdateProfileRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), caller, req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, Response{Success: true, Message: "资料已更新", Data: profile})
}
