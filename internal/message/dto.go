package message

import (
	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/core/common/validation"
	messageDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/message"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type CreateRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Subject    string `json:"subject,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

func (r CreateRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("receiverId", r.ReceiverID).Required()
	v.Field("content", r.Content).Required().MaxLength(10000)
	v.Field("subject", r.Subject).MaxLength(200)
	v.Field("priority", r.Priority).OneOf(internal.ErrCodeValidationFailed, messageDatamodel.Priorities...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("status", r.Status).Required().OneOf(internal.ErrCodeInvalidStatus, messageDatamodel.Statuses...)
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
