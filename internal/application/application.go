package application

import (
	"context"
	"encoding/json"

	appDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/application"
	"github.com/frahmantamala/hiring-gateway/internal/core/events"
)

const (
	EventSubmitted     = events.EventTypeApplicationSubmitted
	EventStatusChanged = events.EventTypeApplicationStatusChanged
)

type ListFilter struct {
	JobID       string
	CandidateID string
	Status      string
	Limit       int
	Offset      int
}

type ListResult struct {
	Rows  json.RawMessage
	Total int
}

type RepositoryAPI interface {
	Exists(ctx context.Context, jobID, candidateID string) (bool, error)
	Create(ctx context.Context, app *appDatamodel.Application) (*appDatamodel.Application, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	// UpdateStatus returns nil, nil when id does not exist.
	UpdateStatus(ctx context.Context, id, status string) (*appDatamodel.Application, error)
}
