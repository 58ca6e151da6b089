package captcha

import (
	"time"

	"github.com/frahmantamala/hiring-gateway/internal/core/common/validation"
)

type GenerateResponse struct {
	Success      bool      `json:"success"`
	SessionToken string    `json:"sessionToken"`
	CaptchaCode  string    `json:"captchaCode"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Message      string    `json:"message"`
}

type VerifyRequest struct {
	SessionToken string `json:"sessionToken"`
	CaptchaCode  string `json:"captchaCode"`
}

func (r VerifyRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("sessionToken", r.SessionToken).Required()
	v.Field("captchaCode", r.CaptchaCode).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type VerifyResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
}
