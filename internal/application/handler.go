package application

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	appDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/application"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	List(ctx context.Context, caller *internal.Principal, filter ListFilter) (*ListResult, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*appDatamodel.Application, error)
}

type Handler struct {
	*transport.BaseHandler
	Service    ServiceAPI
	Pagination internal.PaginationConfig
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, pagination internal.PaginationConfig) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Pagination:  pagination,
	}
}

// Submit handles POST /api/applications/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	result, err := h.Service.Submit(r.Context(), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, SubmitResponse{
		Success: true,
		Message: "申请提交成功",
		Data:    *result,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, internal.ErrMissingToken)
		return
	}

	q := r.URL.Query()
	page := transport.ParsePage(r, h.Pagination.DefaultLimit, h.Pagination.MaxLimit)
	result, err := h.Service.List(r.Context(), caller, ListFilter{
		JobID:       q.Get("job_id"),
		CandidateID: q.Get("candidate_id"),
		Status:      q.Get("status"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Data:       result.Rows,
		Pagination: PaginationInfo{Page: page, Total: result.Total},
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DataResponse{
		Success: true,
		Message: "申请状态已更新",
		Data:    updated,
	})
}
