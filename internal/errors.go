package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized     ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden        ErrorType = "FORBIDDEN"
	ErrorTypeMethodNotAllowed ErrorType = "METHOD_NOT_ALLOWED"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal         ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingFields    ErrorCode = "MISSING_FIELDS"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeInvalidFileType  ErrorCode = "INVALID_FILE_TYPE"
	ErrCodeFileTooLarge     ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeJobNotFound          ErrorCode = "JOB_NOT_FOUND"
	ErrCodeResourceNotFound     ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeRouteNotFound        ErrorCode = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed     ErrorCode = "METHOD_NOT_ALLOWED"

	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInsufficientRole   ErrorCode = "INSUFFICIENT_ROLE"

	ErrCodeCaptchaInvalid  ErrorCode = "CAPTCHA_INVALID"
	ErrCodeCaptchaExpired  ErrorCode = "CAPTCHA_EXPIRED"
	ErrCodeCaptchaUsed     ErrorCode = "CAPTCHA_USED"
	ErrCodeCaptchaMismatch ErrorCode = "CAPTCHA_MISMATCH"

	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is rendered as the gateway envelope {success:false, error, details?, required?}.
type AppError struct {
	Type       ErrorType
	Code       ErrorCode
	Message    string
	Details    interface{}
	Required   []string
	Missing    []string
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches clones made by WithCause and WithDetails against their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code && t.Message == e.Message
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewMissingFieldsError lists every required field of the operation and the subset that was absent.
func NewMissingFieldsError(required, missing []string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeMissingFields,
		Message:    "缺少必填字段",
		Required:   required,
		Missing:    missing,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewMethodNotAllowedError(method string) *AppError {
	return &AppError{
		Type:       ErrorTypeMethodNotAllowed,
		Code:       ErrCodeMethodNotAllowed,
		Message:    fmt.Sprintf("不支持的请求方法: %s", method),
		StatusCode: http.StatusMethodNotAllowed,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewUpstreamError wraps a failed backend call; the backend's error text travels as details.
func NewUpstreamError(message string, status int, cause error) *AppError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	e := &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeUpstream,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func NewInternalError(message string, cause error) *AppError {
	e := &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

var (
	ErrMissingToken     = NewUnauthorizedError("未提供认证令牌", ErrCodeMissingToken)
	ErrInvalidToken     = NewUnauthorizedError("认证令牌无效", ErrCodeInvalidToken)
	ErrTokenExpired     = NewUnauthorizedError("认证令牌已过期", ErrCodeTokenExpired)
	ErrInsufficientRole = NewForbiddenError("权限不足", ErrCodeInsufficientRole)
	ErrInvalidBody      = NewValidationError("请求体格式错误", ErrCodeInvalidBody)
	ErrRouteNotFound    = NewNotFoundError("接口不存在", ErrCodeRouteNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Envelope is the uniform failure body returned by every gateway route.
type Envelope struct {
	Success  bool        `json:"success"`
	Error    string      `json:"error"`
	Code     ErrorCode   `json:"code,omitempty"`
	Details  interface{} `json:"details,omitempty"`
	Required []string    `json:"required,omitempty"`
	Missing  []string    `json:"missing,omitempty"`
	Path     string      `json:"path,omitempty"`
}

func (e *AppError) ToEnvelope() Envelope {
	return Envelope{
		Success:  false,
		Error:    e.Message,
		Code:     e.Code,
		Details:  e.Details,
		Required: e.Required,
		Missing:  e.Missing,
	}
}

func (e *AppError) ToHTTPResponse() (int, Envelope) {
	return e.StatusCode, e.ToEnvelope()
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToEnvelope())
}
