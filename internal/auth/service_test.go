package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/auth"
	authPostgrest "github.com/frahmantamala/hiring-gateway/internal/auth/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/internal/supabase/supabasetest"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func statusOf(err error) int {
	appErr, ok := internal.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected an AppError, got %v", err)
	return appErr.StatusCode
}

var _ = Describe("Auth Service", func() {
	var (
		backend *supabasetest.Server
		service *auth.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		backend = supabasetest.NewServer()
		backend.Unique("users", "id")

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client := supabase.NewClient(supabase.Config{URL: backend.URL, AnonKey: "anon", ServiceRoleKey: "service"}, slogger)
		service = auth.NewService(client, auth.NewRemoteVerifier(client), authPostgrest.NewRoleRepository(client), slogger)
		ctx = context.Background()
	})

	AfterEach(func() {
		backend.Close()
	})

	Describe("Login", func() {
		It("should return the backend session on success", func() {
			backend.AddUser("u1", "a@example.com", "secret", nil)
			session, err := service.Login(ctx, auth.LoginRequest{Email: "a@example.com", Password: "secret"})
			Expect(err).NotTo(HaveOccurred())

			var body map[string]interface{}
			Expect(json.Unmarshal(session, &body)).To(Succeed())
			Expect(body["access_token"]).To(Equal("token-u1"))
		})

		It("should answer 401 with the backend message on bad credentials", func() {
			backend.AddUser("u1", "a@example.com", "secret", nil)
			_, err := service.Login(ctx, auth.LoginRequest{Email: "a@example.com", Password: "wrong"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(appErr.Details).To(Equal("Invalid login credentials"))
		})

		It("should require email and password", func() {
			_, err := service.Login(ctx, auth.LoginRequest{Email: "a@example.com"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Missing).To(Equal([]string{"password"}))
		})

		It("should report a backend outage as 500", func() {
			backend.FailNext("/auth/v1/token", http.StatusBadGateway, `{"message":"bad gateway"}`)
			_, err := service.Login(ctx, auth.LoginRequest{Email: "a@example.com", Password: "x"})
			Expect(statusOf(err)).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Register", func() {
		It("should always register candidates and create the role row", func() {
			_, err := service.Register(ctx, auth.RegisterRequest{Email: "new@example.com", Password: "pw123456", Name: "New"})
			Expect(err).NotTo(HaveOccurred())

			rows := backend.Rows("users")
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]["role"]).To(Equal("candidate"))
			Expect(rows[0]["email"]).To(Equal("new@example.com"))
		})

		It("should answer 400 when the backend refuses", func() {
			backend.AddUser("u1", "dup@example.com", "pw", nil)
			_, err := service.Register(ctx, auth.RegisterRequest{Email: "dup@example.com", Password: "pw123456"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(appErr.Details).To(Equal("User already registered"))
		})
	})

	Describe("CurrentUser", func() {
		It("should attach the stored role", func() {
			token := backend.AddUser("u1", "hr@example.com", "pw", nil)
			backend.Seed("users", supabasetest.Row{"id": "u1", "email": "hr@example.com", "role": "hr"})

			user, err := service.CurrentUser(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal("hr"))

			var raw map[string]interface{}
			Expect(json.Unmarshal(user.User, &raw)).To(Succeed())
			Expect(raw["id"]).To(Equal("u1"))
		})

		It("should default to candidate without a role row", func() {
			token := backend.AddUser("u2", "admin@example.com", "pw", nil)
			user, err := service.CurrentUser(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal("candidate"))
		})

		It("should answer 401 for unknown tokens", func() {
			_, err := service.CurrentUser(ctx, "token-nobody")
			Expect(statusOf(err)).To(Equal(http.StatusUnauthorized))
		})

		It("should answer 401 without a token", func() {
			_, err := service.CurrentUser(ctx, "")
			Expect(err).To(Equal(internal.ErrMissingToken))
		})
	})

	Describe("Refresh", func() {
		It("should exchange a valid refresh token", func() {
			backend.AddUser("u1", "a@example.com", "secret", nil)
			session, err := service.Login(ctx, auth.LoginRequest{Email: "a@example.com", Password: "secret"})
			Expect(err).NotTo(HaveOccurred())
			var body struct {
				RefreshToken string `json:"refresh_token"`
			}
			Expect(json.Unmarshal(session, &body)).To(Succeed())

			_, err = service.Refresh(ctx, auth.RefreshRequest{RefreshToken: body.RefreshToken})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should answer 401 for an unknown refresh token", func() {
			_, err := service.Refresh(ctx, auth.RefreshRequest{RefreshToken: "nope"})
			Expect(statusOf(err)).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Logout", func() {
		It("should revoke the session", func() {
			token := backend.AddUser("u1", "a@example.com", "pw", nil)
			Expect(service.Logout(ctx, token)).To(Succeed())
			_, err := service.CurrentUser(ctx, token)
			Expect(statusOf(err)).To(Equal(http.StatusUnauthorized))
		})

		It("should require a token", func() {
			Expect(service.Logout(ctx, "")).To(Equal(internal.ErrMissingToken))
		})
	})

	Describe("Authenticate", func() {
		It("should build a principal with the stored role", func() {
			token := backend.AddUser("u1", "admin@example.com", "pw", nil)
			backend.Seed("users", supabasetest.Row{"id": "u1", "role": "admin"})

			p, err := service.Authenticate(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal("u1"))
			Expect(p.Role).To(Equal(permission.RoleAdmin))
			Expect(p.Token).To(Equal(token))
		})

		It("should treat unknown stored roles as candidate", func() {
			token := backend.AddUser("u1", "x@example.com", "pw", nil)
			backend.Seed("users", supabasetest.Row{"id": "u1", "role": "superuser"})

			p, err := service.Authenticate(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal(permission.RoleCandidate))
		})

		It("should fail with 401 for a revoked token", func() {
			_, err := service.Authenticate(ctx, "token-ghost")
			Expect(statusOf(err)).To(Equal(http.StatusUnauthorized))
		})
	})
})
