package notification

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/hiring-gateway/internal"
	notificationDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/notification"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, userID string, filter ListFilter) (*ListResult, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, req CreateRequest) (*notificationDatamodel.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*notificationDatamodel.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
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
	filter := ListFilter{Type: q.Get("type"), Limit: page.Limit, Offset: page.Offset}
	if v, err := strconv.ParseBool(q.Get("is_read")); err == nil {
		filter.IsRead = &v
	}

	result, err := h.Service.List(r.Context(), p.ID, filter)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	created, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, DataResponse{Success: true, Message: "通知已发送", Data: created})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	updated, err := h.Service.MarkRead(r.Context(), p.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DataResponse{Success: true, Message: "通知已标记为已读", Data: updated})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}

	n, err := h.Service.MarkAllRead(r.Context(), p.ID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DataResponse{Success: true, Message: "所有通知已标记为已读", Data: Count{Count: n}})
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
	h.WriteJSON(w, http.StatusOK, DataResponse{Success: true, Message: "通知已删除"})
}
