package upload_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/internal/supabase/supabasetest"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/frahmantamala/hiring-gateway/internal/upload"
	"github.com/frahmantamala/hiring-gateway/internal/upload/objectstore"
	uploadPostgrest "github.com/frahmantamala/hiring-gateway/internal/upload/postgrest"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func multipartBody(fields map[string]string, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		Expect(mw.WriteField(k, v)).To(Succeed())
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(data)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(mw.Close()).To(Succeed())
	return &buf, mw.FormDataContentType()
}

var _ = Describe("Upload Handler", func() {
	var (
		backend *supabasetest.Server
		router  *chi.Mux
		caller  *internal.Principal
	)

	BeforeEach(func() {
		backend = supabasetest.NewServer()
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := supabase.NewClient(supabase.Config{URL: backend.URL, AnonKey: "anon", ServiceRoleKey: "service"}, slogger)
		service := upload.NewService(objectstore.NewSupabase(client), uploadPostgrest.NewMetadataRepository(client), upload.Config{}, slogger)
		handler := upload.NewHandler(transport.NewBaseHandler(slogger), service)

		caller = &internal.Principal{ID: "u1", Role: permission.RoleCandidate}
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithPrincipal(r.Context(), caller)))
			})
		})
		router.Post("/api/upload/resume", handler.UploadResume)
		router.Post("/api/upload/avatar", handler.UploadAvatar)
		router.Post("/api/upload/signed-url", handler.SignedURL)
		router.Delete("/api/upload/delete/*", handler.Delete)
	})

	AfterEach(func() {
		backend.Close()
	})

	post := func(target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should store a resume and insert its metadata row", func() {
		backend.Seed("applicants", supabasetest.Row{"id": "a-1", "user_id": "u1", "email": "u1@example.com"})
		body, ct := multipartBody(map[string]string{"userId": "someone-else"}, "cv.pdf", "application/pdf", buildPDF(1))
		rec := post("/api/upload/resume", body, ct)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp struct {
			Success bool          `json:"success"`
			Data    upload.Result `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Success).To(BeTrue())
		Expect(resp.Data.FilePath).To(HavePrefix("resumes/u1/"))
		Expect(resp.Data.FileID).NotTo(BeNil())
		Expect(*resp.Data.PageCount).To(Equal(1))

		_, stored := backend.Object("resumes", resp.Data.FilePath)
		Expect(stored).To(BeTrue())
		rows := backend.Rows("resumes")
		Expect(rows).To(HaveLen(1))
		Expect(rows[0]["file_path"]).To(Equal(resp.Data.FilePath))
		Expect(rows[0]["applicant_id"]).To(Equal("a-1"))
	})

	It("should not write the auth user id as the resume's applicant", func() {
		body, ct := multipartBody(nil, "cv.pdf", "application/pdf", []byte("%PDF-"))
		rec := post("/api/upload/resume", body, ct)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rows := backend.Rows("resumes")
		Expect(rows).To(HaveLen(1))
		Expect(rows[0]).NotTo(HaveKey("applicant_id"))
	})

	It("should refuse uploads and deletes without a signed-in caller", func() {
		caller = nil
		body, ct := multipartBody(map[string]string{"userId": "c7"}, "cv.pdf", "application/pdf", []byte("%PDF-"))
		rec := post("/api/upload/resume", body, ct)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(backend.Rows("resumes")).To(BeEmpty())

		req := httptest.NewRequest(http.MethodDelete, "/api/upload/delete/resumes/c7/1_x.pdf", nil)
		del := httptest.NewRecorder()
		router.ServeHTTP(del, req)
		Expect(del.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should let HR upload into a candidate's folder", func() {
		caller = &internal.Principal{ID: "hr1", Role: permission.RoleHR}
		body, ct := multipartBody(map[string]string{"userId": "c7"}, "cv.pdf", "application/pdf", []byte("%PDF-"))
		rec := post("/api/upload/resume", body, ct)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`resumes/c7/`))
	})

	It("should answer a text file with a type error", func() {
		body, ct := multipartBody(nil, "notes.txt", "text/plain", []byte("hello"))
		rec := post("/api/upload/resume", body, ct)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var env internal.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Code).To(Equal(internal.ErrCodeInvalidFileType))
	})

	It("should answer a 6MB resume with a size error", func() {
		body, ct := multipartBody(nil, "big.pdf", "application/pdf", make([]byte, 6<<20))
		rec := post("/api/upload/resume", body, ct)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var env internal.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Code).To(Equal(internal.ErrCodeFileTooLarge))
	})

	It("should report a missing file part", func() {
		body, ct := multipartBody(map[string]string{"userId": "u1"}, "", "", nil)
		rec := post("/api/upload/avatar", body, ct)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var env internal.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Missing).To(Equal([]string{"file"}))
	})

	It("should update the avatar url on the caller's profile", func() {
		backend.Seed("user_profiles", supabasetest.Row{"user_id": "u1", "full_name": "Candidate"})
		body, ct := multipartBody(nil, "me.webp", "image/webp", []byte("RIFF"))
		rec := post("/api/upload/avatar", body, ct)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(backend.Rows("user_profiles")[0]["avatar_url"]).To(ContainSubstring("/storage/v1/object/public/avatars/avatars/u1/"))
	})

	It("should hand out an upload path", func() {
		rec := post("/api/upload/signed-url", bytes.NewBufferString(`{"fileName":"cv.pdf"}`), "application/json")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp struct {
			Data upload.SignedURL `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Data.FilePath).To(HavePrefix("uploads/u1/"))
		Expect(resp.Data.SignedURL).To(HavePrefix(backend.URL + "/storage/v1/object/resumes/uploads/u1/"))
		Expect(resp.Data.ExpiresIn).To(Equal(3600))
	})

	It("should delete an uploaded resume with its row", func() {
		body, ct := multipartBody(nil, "cv.pdf", "application/pdf", []byte("%PDF-"))
		rec := post("/api/upload/resume", body, ct)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var resp struct {
			Data upload.Result `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())

		req := httptest.NewRequest(http.MethodDelete, "/api/upload/delete/"+resp.Data.FilePath, nil)
		del := httptest.NewRecorder()
		router.ServeHTTP(del, req)
		Expect(del.Code).To(Equal(http.StatusOK))

		_, stored := backend.Object("resumes", resp.Data.FilePath)
		Expect(stored).To(BeFalse())
		Expect(backend.Rows("resumes")).To(BeEmpty())
	})

	It("should forbid deleting another candidate's file", func() {
		req := httptest.NewRequest(http.MethodDelete, "/api/upload/delete/resumes/u9/1_x.pdf", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})
})
