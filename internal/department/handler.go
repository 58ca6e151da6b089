package department

import (
	"context"
	"net/http"

	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]jobDatamodel.Department, error)
	Get(ctx context.Context, id string) (*jobDatamodel.Department, error)
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.List(r.Context())
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, Response{Success: true, Data: departments, Count: len(departments)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, Response{Success: true, Data: d})
}
