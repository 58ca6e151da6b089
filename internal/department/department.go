package department

import (
	"context"

	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]jobDatamodel.Department, error)
	GetByID(ctx context.Context, id string) (*jobDatamodel.Department, error)
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Count   int         `json:"count,omitempty"`
}
