package job

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListActive(ctx context.Context, req ListRequest) (*ListResult, error)
	GetActive(ctx context.Context, id string) (*jobDatamodel.Job, error)
}

type Handler struct {
	*transport.BaseHandler
	Service    ServiceAPI
	Pagination internal.PaginationConfig
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, pagination internal.PaginationConfig) *Handler {
	if pagination.DefaultLimit <= 0 {
		pagination.DefaultLimit = 20
	}
	if pagination.MaxLimit <= 0 {
		pagination.MaxLimit = 100
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Pagination:  pagination,
	}
}

// ListJobs handles GET /api/jobs. Only active jobs are ever returned.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := transport.ParsePage(r, h.Pagination.DefaultLimit, h.Pagination.MaxLimit)

	fields := q.Get("fields")
	if fields == "" {
		fields = "*"
	}

	result, err := h.Service.ListActive(r.Context(), ListRequest{
		Fields:       fields,
		Limit:        page.Limit,
		Offset:       page.Offset,
		DepartmentID: q.Get("department_id"),
		Search:       q.Get("search"),
	})
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Success: true,
		Data:    result.Rows,
		Count:   result.Total,
		Message: "获取职位列表成功",
		Runtime: Runtime,
	})
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.Service.GetActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, GetResponse{Success: true, Data: j})
}
