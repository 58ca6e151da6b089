package application

import (
	"time"

	"github.com/frahmantamala/hiring-gateway/internal/core/common/validation"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
)

type SubmitRequest struct {
	JobID       string `json:"jobId"`
	CandidateID string `json:"candidateId"`
	CoverLetter string `json:"coverLetter,omitempty"`
	ResumeURL   string `json:"resumeUrl,omitempty"`
}

func (r SubmitRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("jobId", r.JobID).Required()
	v.Field("candidateId", r.CandidateID).Required()
	v.Field("coverLetter", r.CoverLetter).MaxLength(5000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SubmitResult struct {
	ApplicationID string    `json:"applicationId"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

type SubmitResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    SubmitResult `json:"data"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("status", r.Status).Required().MaxLength(50)
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

type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}
