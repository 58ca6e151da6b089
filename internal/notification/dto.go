package notification

import (
	"encoding/json"

	"github.com/frahmantamala/hiring-gateway/internal/core/common/validation"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type CreateRequest struct {
	UserID  string          `json:"userId"`
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (r CreateRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", r.UserID).Required()
	v.Field("type", r.Type).Required().MaxLength(50)
	v.Field("title", r.Title).Required().MaxLength(200)
	v.Field("message", r.Message).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListResponse struct {
	Success    bool           `json:"success"`
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

type PaginationInfo struct {
	transport.Page
	Total int `json:"total"`
}

type Count struct {
	Count int `json:"count"`
}

type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
