package captcha

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type ServiceAPI interface {
	Generate(ctx context.Context) (*GenerateResponse, error)
	Verify(ctx context.Context, req VerifyRequest) error
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

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.Generate(r.Context())
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	if err := h.Service.Verify(r.Context(), req); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, VerifyResponse{Success: true, Verified: true, Message: "验证成功"})
}
