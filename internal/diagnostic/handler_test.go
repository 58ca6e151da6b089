package diagnostic_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/diagnostic"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDiagnostic(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Diagnostic Suite")
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

var _ = Describe("Test endpoint", func() {
	cfg := &internal.Config{
		Environment: "staging",
		Supabase:    internal.SupabaseConfig{URL: "https://x.supabase.co", AnonKey: "anon", ServiceRoleKey: "secret-value"},
		Storage:     internal.StorageConfig{Driver: "supabase"},
		Captcha:     internal.CaptchaConfig{Store: "memory"},
	}
	base := transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	get := func(h *diagnostic.Handler, target string) diagnostic.Response {
		rec := httptest.NewRecorder()
		h.Test(rec, httptest.NewRequest(http.MethodGet, target, nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).NotTo(ContainSubstring("secret-value"))

		var resp diagnostic.Response
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	It("should echo environment and presence flags", func() {
		resp := get(diagnostic.NewHandler(base, stubPinger{}, cfg), "/api/test")
		Expect(resp.Success).To(BeTrue())
		Expect(resp.Environment).To(Equal("staging"))
		Expect(resp.Runtime).To(Equal("go"))
		Expect(resp.Config.HasServiceRoleKey).To(BeTrue())
		Expect(resp.Config.HasJWTSecret).To(BeFalse())
		Expect(resp.Backend).To(BeNil())
	})

	It("should report backend reachability on request", func() {
		resp := get(diagnostic.NewHandler(base, stubPinger{err: errors.New("connection refused")}, cfg), "/api/test?check=backend")
		Expect(resp.Backend).NotTo(BeNil())
		Expect(resp.Backend.Reachable).To(BeFalse())
		Expect(resp.Backend.Error).To(Equal("connection refused"))
	})
})
