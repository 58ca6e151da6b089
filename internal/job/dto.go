package job

import (
	"encoding/json"
	"regexp"

	"github.com/frahmantamala/hiring-gateway/internal"
)

const Runtime = internal.Runtime

var fieldsPattern = regexp.MustCompile(`^(\*|[a-z_][a-z0-9_]*)(,(\*|[a-z_][a-z0-9_]*))*$`)

type ListRequest struct {
	Fields       string
	Limit        int
	Offset       int
	DepartmentID string
	Search       string
}

func (r ListRequest) Validate() error {
	if !fieldsPattern.MatchString(r.Fields) {
		return internal.NewValidationError("fields 参数格式错误", internal.ErrCodeValidationFailed).
			WithDetails(map[string]string{"fields": r.Fields})
	}
	return nil
}

type ListResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
	Runtime string          `json:"runtime"`
}

type GetResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}
