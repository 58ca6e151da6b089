package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError renders err as the failure envelope. Anything that is not an
// AppError is treated as an upstream failure (backend errors) or an internal one.
func (h *BaseHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := ToAppError(err)

	log := logger.From(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed",
			"path", r.URL.Path,
			"status", appErr.StatusCode,
			"code", appErr.Code,
			"error", err)
	} else {
		log.Debug("request rejected",
			"path", r.URL.Path,
			"status", appErr.StatusCode,
			"code", appErr.Code,
			"error", appErr.Message)
	}

	status, envelope := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, envelope)
}

func ToAppError(err error) *internal.AppError {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	var apiErr *supabase.Error
	if errors.As(err, &apiErr) {
		return internal.NewUpstreamError("后端服务请求失败", http.StatusInternalServerError, apiErr)
	}
	return internal.NewInternalError("服务器内部错误", err)
}

// DecodeJSON reads a JSON request body into dst. An empty body decodes to the zero value.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return internal.ErrInvalidBody.WithCause(err).WithDetails(err.Error())
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r)
}

func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// Page is the resolved limit/offset window of a list request.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Page   int `json:"page"`
}

// DefaultPageLimit applies when the caller passes no usable default.
const DefaultPageLimit = 20

// ParsePage reads limit plus either offset or a 1-based page from the query string.
// Out-of-range values fall back to the defaults instead of failing.
func ParsePage(r *http.Request, defaultLimit, maxLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit > 0 && defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}

	q := r.URL.Query()
	limit := atoiOr(q.Get("limit"), defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	offset := atoiOr(q.Get("offset"), -1)
	page := atoiOr(q.Get("page"), 0)
	switch {
	case offset >= 0:
		page = offset/limit + 1
	case page >= 1 && page <= math.MaxInt32/limit:
		offset = (page - 1) * limit
	default:
		offset = 0
		page = 1
	}
	return Page{Limit: limit, Offset: offset, Page: page}
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
