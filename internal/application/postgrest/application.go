package postgrest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal/application"
	appDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/application"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const table = "applications"

type ApplicationRepository struct {
	client *supabase.Client
}

func NewApplicationRepository(client *supabase.Client) *ApplicationRepository {
	return &ApplicationRepository{client: client}
}

func (r *ApplicationRepository) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	q := supabase.NewQuery().
		Select("id").
		Eq("job_id", jobID).
		Eq("candidate_id", candidateID).
		Limit(1)

	resp, err := r.client.Select(ctx, table, q)
	if err != nil {
		return false, err
	}

	var rows []json.RawMessage
	if err := resp.Decode(&rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *appDatamodel.Application) (*appDatamodel.Application, error) {
	resp, err := r.client.Insert(ctx, table, app)
	if err != nil {
		return nil, err
	}

	var rows []appDatamodel.Application
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return app, nil
	}
	return &rows[0], nil
}

func (r *ApplicationRepository) List(ctx context.Context, f application.ListFilter) (*application.ListResult, error) {
	q := supabase.NewQuery().
		Select("*").
		Order("applied_at", false).
		Limit(f.Limit).
		Offset(f.Offset)
	if f.JobID != "" {
		q.Eq("job_id", f.JobID)
	}
	if f.CandidateID != "" {
		q.Eq("candidate_id", f.CandidateID)
	}
	if f.Status != "" {
		q.Eq("status", f.Status)
	}

	resp, err := r.client.SelectWithCount(ctx, table, q)
	if err != nil {
		return nil, err
	}
	total, _ := resp.Total()
	return &application.ListResult{Rows: resp.Raw(), Total: total}, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id, status string) (*appDatamodel.Application, error) {
	resp, err := r.client.Update(ctx, table, supabase.NewQuery().Eq("id", id), map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	var rows []appDatamodel.Application
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
