package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/department"
	departmentPostgrest "github.com/frahmantamala/hiring-gateway/internal/department/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/notification"
	notificationPostgrest "github.com/frahmantamala/hiring-gateway/internal/notification/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/internal/supabase/supabasetest"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/frahmantamala/hiring-gateway/internal/transport/rest"
	"github.com/frahmantamala/hiring-gateway/internal/user"
	userPostgrest "github.com/frahmantamala/hiring-gateway/internal/user/postgrest"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

type tokenTable map[string]*internal.Principal

func (t tokenTable) Authenticate(_ context.Context, token string) (*internal.Principal, error) {
	if p, ok := t[token]; ok {
		return p, nil
	}
	return nil, internal.ErrInvalidToken
}

var _ = Describe("Router", func() {
	var (
		backend *supabasetest.Server
		router  *chi.Mux
		dbErr   error
	)

	BeforeEach(func() {
		backend = supabasetest.NewServer()
		dbErr = nil

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(slogger)
		client := supabase.NewClient(supabase.Config{URL: backend.URL, AnonKey: "anon", ServiceRoleKey: "service"}, slogger)
		notifications := notification.NewService(notificationPostgrest.NewNotificationRepository(client), slogger)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Handlers{
			Health: rest.NewHealthHandler(base, map[string]rest.Checker{
				"database": rest.CheckerFunc(func(context.Context) error { return dbErr }),
				"unused":   nil,
			}),
			Notification: notification.NewHandler(base, notifications, internal.PaginationConfig{DefaultLimit: 20, MaxLimit: 100}),
			Department:   department.NewHandler(base, department.NewService(departmentPostgrest.NewDepartmentRepository(client), slogger)),
			User:         user.NewHandler(base, user.NewService(userPostgrest.NewUserRepository(client), slogger)),
		}, tokenTable{
			"cand": {ID: "c1", Role: permission.RoleCandidate},
			"hr":   {ID: "h1", Role: permission.RoleHR},
		}, "", slogger)
	})

	AfterEach(func() {
		backend.Close()
	})

	send := func(method, target, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	envelope := func(rec *httptest.ResponseRecorder) internal.Envelope {
		var env internal.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return env
	}

	It("should list capabilities at / and /api", func() {
		for _, target := range []string{"/", "/api"} {
			rec := send(http.MethodGet, target, "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body rest.IndexResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Success).To(BeTrue())
			Expect(body.Runtime).To(Equal(internal.Runtime))
			Expect(body.Endpoints).To(HaveKey("jobs"))
		}
	})

	It("should serve departments without a token and the caller's account only with one", func() {
		backend.Seed("departments", supabasetest.Row{"id": "d1", "name": "Engineering"})
		Expect(send(http.MethodGet, "/api/departments", "", nil).Code).To(Equal(http.StatusOK))

		Expect(send(http.MethodGet, "/api/users/me", "", nil).Code).To(Equal(http.StatusUnauthorized))
		rec := send(http.MethodGet, "/api/users/me", "cand", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"role":"candidate"`))
	})

	It("should answer unknown paths with the JSON envelope", func() {
		rec := send(http.MethodGet, "/api/nope", "", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		env := envelope(rec)
		Expect(env.Success).To(BeFalse())
		Expect(env.Error).To(Equal("接口不存在"))
		Expect(env.Path).To(Equal("/api/nope"))
	})

	It("should answer 405 for a known path with the wrong method", func() {
		rec := send(http.MethodPost, "/", "", nil)
		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(envelope(rec).Code).To(Equal(internal.ErrCodeMethodNotAllowed))
	})

	It("should reject unauthenticated notification reads with 401", func() {
		rec := send(http.MethodGet, "/api/notifications", "", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))

		rec = send(http.MethodGet, "/api/notifications", "bogus", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should serve the caller's notifications", func() {
		backend.Seed("notifications",
			supabasetest.Row{"user_id": "c1", "type": "t", "title": "mine", "is_read": false},
			supabasetest.Row{"user_id": "c2", "type": "t", "title": "theirs", "is_read": false},
		)
		rec := send(http.MethodGet, "/api/notifications", "cand", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("mine"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("theirs"))
	})

	It("should only let HR send notifications", func() {
		payload := map[string]string{"userId": "c1", "type": "info", "title": "hello"}

		rec := send(http.MethodPost, "/api/notifications", "cand", payload)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec = send(http.MethodPost, "/api/notifications", "hr", payload)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(backend.Rows("notifications")).To(HaveLen(1))
	})

	It("should answer CORS preflight without routing", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/anything", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
	})

	It("should report unhealthy components with 503", func() {
		rec := send(http.MethodGet, "/health", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Components).To(HaveLen(1))

		dbErr = errors.New("connection refused")
		rec = send(http.MethodGet, "/health", "", nil)
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Components["database"].Message).To(Equal("connection refused"))
	})

	It("should serve the OpenAPI document", func() {
		rec := send(http.MethodGet, "/openapi.yml", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Hiring Gateway API"))
	})
})
