package captcha_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/captcha"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Captcha Handler", func() {
	var handler *captcha.Handler

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := captcha.NewService(captcha.NewMemoryStore(), captcha.Config{HashCost: bcrypt.MinCost}, slogger)
		handler = captcha.NewHandler(transport.NewBaseHandler(slogger), service)
	})

	verify := func(body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		rec := httptest.NewRecorder()
		handler.Verify(rec, httptest.NewRequest(http.MethodPost, "/api/captcha/verify", &buf))
		return rec
	}

	It("should round-trip generate and verify, then refuse a replay", func() {
		rec := httptest.NewRecorder()
		handler.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/captcha/generate", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var gen captcha.GenerateResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &gen)).To(Succeed())
		Expect(gen.Success).To(BeTrue())

		req := captcha.VerifyRequest{SessionToken: gen.SessionToken, CaptchaCode: gen.CaptchaCode}
		ok := verify(req)
		Expect(ok.Code).To(Equal(http.StatusOK))
		Expect(ok.Body.String()).To(MatchJSON(`{"success":true,"verified":true,"message":"验证成功"}`))

		replay := verify(req)
		Expect(replay.Code).To(Equal(http.StatusBadRequest))
		var env internal.Envelope
		Expect(json.Unmarshal(replay.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Success).To(BeFalse())
		Expect(env.Code).To(Equal(internal.ErrCodeCaptchaUsed))
	})

	It("should answer 400 for an unknown session", func() {
		rec := verify(captcha.VerifyRequest{SessionToken: "missing", CaptchaCode: "1234"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
