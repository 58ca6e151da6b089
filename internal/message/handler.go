package message

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	messageDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/message"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, userID string, filter ListFilter) (*ListResult, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	Get(ctx context.Context, userID, id string) (*messageDatamodel.Message, error)
	Create(ctx context.Context, senderID string, req CreateRequest) (*messageDatamodel.Message, error)
	UpdateStatus(ctx context.Context, userID, id string, req UpdateStatusRequest) (*messageDatamodel.Message, error)
	Delete(ctx context.Context, userID, id string) error
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

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (*internal.Principal, bool) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, internal.ErrMissingToken)
	}
	return p, ok
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page := transport.ParsePage(r, h.Pagination.DefaultLimit, h.Pagination.MaxLimit)
	result, err := h.Service.List(r.Context(), p.ID, ListFilter{
		Box:    q.Get("box"),
		Status: q.Get("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
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

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	n, err := h.Service.UnreadCount(r.Context(), p.ID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DataResponse{Success: true, Data: Count{Count: n}})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	m, err := h.Service.Get(r.Context(), p.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DataResponse{Success: true, Data: m})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	created, err := h.Service.Create(r.Context(), p.ID, req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, DataResponse{Success: true, Message: "消息发送成功", Data: created})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), p.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DataResponse{Success: true, Message: "消息状态已更新", Data: updated})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), p.ID, chi.URLParam(r, "id")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DataResponse{Success: true, Message: "消息已删除"})
}
