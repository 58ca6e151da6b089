package user

import (
	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/core/common/validation"
)

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	if r.FullName == nil && r.Phone == nil {
		return internal.NewValidationError("没有需要更新的字段", internal.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	if r.FullName != nil {
		v.Field("fullName", *r.FullName).MaxLength(100)
	}
	if r.Phone != nil {
		v.Field("phone", *r.Phone).MaxLength(30)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (r UpdateProfileRequest) patch() map[string]string {
	out := make(map[string]string, 2)
	if r.FullName != nil {
		out["full_name"] = *r.FullName
	}
	if r.Phone != nil {
		out["phone"] = *r.Phone
	}
	return out
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}
