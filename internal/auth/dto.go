package auth

import (
	"encoding/json"

	"github.com/frahmantamala/hiring-gateway/internal/core/common/validation"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// RegisterRequest has no role field: every self-registered account is a candidate.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (d RegisterRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	v.Field("name", d.Name).MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CurrentUser struct {
	User json.RawMessage `json:"user"`
	Role string          `json:"role"`
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
