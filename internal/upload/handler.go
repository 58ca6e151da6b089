package upload

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
	"github.com/go-chi/chi"
)

// multipart overhead allowed on top of the file limit
const formSlack = 1 << 20

type ServiceAPI interface {
	UploadResume(ctx context.Context, owner string, f *File) (*Result, error)
	UploadAvatar(ctx context.Context, userID string, f *File) (*Result, error)
	SignedURL(ctx context.Context, owner string, req SignedURLRequest) (*SignedURL, error)
	Delete(ctx context.Context, owner, bucket, filePath string) error
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

// owner picks whose folder an upload lands in. Callers that may act on behalf
// of candidates can name another user; everyone else is pinned to themselves.
func owner(r *http.Request, requested string) string {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		return ""
	}
	if requested != "" && p.Role.Can(permission.FeatureViewCandidates) {
		return requested
	}
	return p.ID
}

func (h *Handler) readFile(w http.ResponseWriter, r *http.Request, kind Kind) (*File, error) {
	if r.ContentLength > kind.MaxSize+formSlack {
		return nil, internal.NewValidationError(kind.SizeMessage, internal.ErrCodeFileTooLarge).
			WithDetails(map[string]int64{"size": r.ContentLength, "maxSize": kind.MaxSize})
	}
	r.Body = http.MaxBytesReader(w, r.Body, kind.MaxSize+formSlack)
	if err := r.ParseMultipartForm(kind.MaxSize + formSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, internal.NewValidationError(kind.SizeMessage, internal.ErrCodeFileTooLarge)
		}
		return nil, internal.ErrInvalidBody.WithCause(err).WithDetails(err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrMissingFile
		}
		return nil, internal.ErrInvalidBody.WithCause(err).WithDetails(err.Error())
	}
	defer file.Close()

	if header.Size > kind.MaxSize {
		return nil, internal.NewValidationError(kind.SizeMessage, internal.ErrCodeFileTooLarge).
			WithDetails(map[string]int64{"size": header.Size, "maxSize": kind.MaxSize})
	}

	data, err := io.ReadAll(io.LimitReader(file, kind.MaxSize+1))
	if err != nil {
		return nil, internal.ErrInvalidBody.WithCause(err)
	}

	return &File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}

func (h *Handler) UploadResume(w http.ResponseWriter, r *http.Request) {
	f, err := h.readFile(w, r, ResumeKind)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	result, err := h.Service.UploadResume(r.Context(), owner(r, r.FormValue("userId")), f)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Message: "简历上传成功", Data: result})
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	f, err := h.readFile(w, r, AvatarKind)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	result, err := h.Service.UploadAvatar(r.Context(), owner(r, r.FormValue("userId")), f)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Message: "头像上传成功", Data: result})
}

func (h *Handler) SignedURL(w http.ResponseWriter, r *http.Request) {
	var req SignedURLRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	signed, err := h.Service.SignedURL(r.Context(), owner(r, ""), req)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Data: signed})
}

// Delete handles DELETE /api/upload/delete/{fileName...}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, internal.ErrMissingToken)
		return
	}
	restrictTo := ""
	if !p.Role.Can(permission.FeatureViewCandidates) {
		restrictTo = p.ID
	}

	err := h.Service.Delete(r.Context(), restrictTo, r.URL.Query().Get("bucket"), chi.URLParam(r, "*"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Success: true, Message: "文件删除成功"})
}
