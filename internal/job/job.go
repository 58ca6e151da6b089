package job

import (
	"context"
	"encoding/json"

	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
)

// ListFilter narrows the active job listing. Fields is a PostgREST column list.
type ListFilter struct {
	Fields       string
	Limit        int
	Offset       int
	DepartmentID string
	Search       string
}

// ListResult keeps the backend rows verbatim so a custom Fields projection survives.
type ListResult struct {
	Rows  json.RawMessage
	Total int
}

type RepositoryAPI interface {
	ListActive(ctx context.Context, filter ListFilter) (*ListResult, error)
	// GetActive returns nil, nil when no active job has this id.
	GetActive(ctx context.Context, id string) (*jobDatamodel.Job, error)
}
