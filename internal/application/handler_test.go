package application_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/application"
	appPostgrest "github.com/frahmantamala/hiring-gateway/internal/application/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/internal/supabase/supabasetest"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Application Handler", func() {
	var (
		backend *supabasetest.Server
		router  *chi.Mux
		caller  *internal.Principal
	)

	BeforeEach(func() {
		backend = supabasetest.NewServer()
		backend.Unique("applications", "job_id", "candidate_id")

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := supabase.NewClient(supabase.Config{URL: backend.URL, AnonKey: "anon", ServiceRoleKey: "service"}, slogger)
		service := application.NewService(appPostgrest.NewApplicationRepository(client), nil, slogger)
		handler := application.NewHandler(transport.NewBaseHandler(slogger), service, internal.PaginationConfig{DefaultLimit: 20, MaxLimit: 100})

		caller = &internal.Principal{ID: "c1", Role: permission.RoleCandidate}
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithPrincipal(r.Context(), caller)))
			})
		})
		router.Post("/api/applications/submit", handler.Submit)
		router.Get("/api/applications", handler.List)
		router.Patch("/api/applications/{id}/status", handler.UpdateStatus)
	})

	AfterEach(func() {
		backend.Close()
	})

	send := func(method, target string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should answer 201 with the application id", func() {
		rec := send(http.MethodPost, "/api/applications/submit", map[string]string{"jobId": "j1", "candidateId": "c1", "coverLetter": "hi"})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var body application.SubmitResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Success).To(BeTrue())
		Expect(body.Data.ApplicationID).NotTo(BeEmpty())
		Expect(body.Data.SubmittedAt).NotTo(BeZero())

		rows := backend.Rows("applications")
		Expect(rows).To(HaveLen(1))
		Expect(rows[0]["status"]).To(Equal("pending"))
	})

	It("should list the required fields when candidateId is missing", func() {
		rec := send(http.MethodPost, "/api/applications/submit", map[string]string{"jobId": "j1"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var env internal.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Required).To(Equal([]string{"jobId", "candidateId"}))
		Expect(env.Missing).To(Equal([]string{"candidateId"}))
	})

	It("should reject duplicates with 400", func() {
		backend.Seed("applications", supabasetest.Row{"job_id": "j1", "candidate_id": "c1", "status": "pending"})
		rec := send(http.MethodPost, "/api/applications/submit", map[string]string{"jobId": "j1", "candidateId": "c1"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var env internal.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Error).To(Equal("您已经申请过这个职位了"))
	})

	It("should treat the unique index as the final word when the pre-check races", func() {
		backend.FailNext("/rest/v1/applications", http.StatusOK, `[]`)
		backend.Seed("applications", supabasetest.Row{"job_id": "j1", "candidate_id": "c1", "status": "pending"})

		rec := send(http.MethodPost, "/api/applications/submit", map[string]string{"jobId": "j1", "candidateId": "c1"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(backend.Rows("applications")).To(HaveLen(1))
	})

	It("should reject malformed JSON", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/applications/submit", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should only list the caller's applications for candidates", func() {
		backend.Seed("applications",
			supabasetest.Row{"job_id": "j1", "candidate_id": "c1", "status": "pending", "applied_at": "2024-01-02T00:00:00Z"},
			supabasetest.Row{"job_id": "j1", "candidate_id": "c2", "status": "pending", "applied_at": "2024-01-01T00:00:00Z"},
		)
		rec := send(http.MethodGet, "/api/applications?candidate_id=c2", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body struct {
			Data       []map[string]interface{} `json:"data"`
			Pagination map[string]int           `json:"pagination"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Data).To(HaveLen(1))
		Expect(body.Data[0]["candidate_id"]).To(Equal("c1"))
		Expect(body.Pagination["total"]).To(Equal(1))
		Expect(body.Pagination["limit"]).To(Equal(20))
	})

	It("should update the status of an existing application", func() {
		backend.Seed("applications", supabasetest.Row{"id": "a1", "job_id": "j1", "candidate_id": "c1", "status": "pending", "applied_at": "2024-01-02T00:00:00Z"})
		rec := send(http.MethodPatch, "/api/applications/a1/status", map[string]string{"status": "interview"})
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(backend.Rows("applications")[0]["status"]).To(Equal("interview"))

		Expect(send(http.MethodPatch, "/api/applications/zzz/status", map[string]string{"status": "x"}).Code).To(Equal(http.StatusNotFound))
	})
})
