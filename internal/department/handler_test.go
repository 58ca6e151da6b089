package department_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/department"
	departmentPostgrest "github.com/frahmantamala/hiring-gateway/internal/department/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/internal/supabase/supabasetest"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDepartment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Suite")
}

var _ = Describe("Department Handler", func() {
	var (
		backend *supabasetest.Server
		router  *chi.Mux
	)

	BeforeEach(func() {
		backend = supabasetest.NewServer()

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := supabase.NewClient(supabase.Config{URL: backend.URL, AnonKey: "anon", ServiceRoleKey: "service"}, slogger)
		service := department.NewService(departmentPostgrest.NewDepartmentRepository(client), slogger)
		handler := department.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/api/departments", handler.List)
		router.Get("/api/departments/{id}", handler.Get)
	})

	AfterEach(func() {
		backend.Close()
	})

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	It("should list departments by name", func() {
		backend.Seed("departments",
			supabasetest.Row{"id": "d2", "name": "设计部"},
			supabasetest.Row{"id": "d1", "name": "Engineering", "color_theme": "blue"},
		)

		rec := get("/api/departments")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body struct {
			Success bool                     `json:"success"`
			Data    []map[string]interface{} `json:"data"`
			Count   int                      `json:"count"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Success).To(BeTrue())
		Expect(body.Count).To(Equal(2))
		Expect(body.Data[0]["name"]).To(Equal("Engineering"))
		Expect(body.Data[0]["color_theme"]).To(Equal("blue"))
	})

	It("should answer an empty array when there are no departments", func() {
		rec := get("/api/departments")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"data":[]`))
	})

	It("should 404 unknown departments", func() {
		rec := get("/api/departments/nope")
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		var env internal.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Error).To(Equal("部门不存在"))
	})

	It("should report backend failures", func() {
		backend.FailNext("/rest/v1/departments", http.StatusBadGateway, `{"message":"down"}`)
		Expect(get("/api/departments").Code).To(Equal(http.StatusInternalServerError))
	})
})
