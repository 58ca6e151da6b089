package postgrest

import (
	"context"
	"encoding/json"

	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
	"github.com/frahmantamala/hiring-gateway/internal/job"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const table = "jobs"

type JobRepository struct {
	client *supabase.Client
}

func NewJobRepository(client *supabase.Client) *JobRepository {
	return &JobRepository{client: client}
}

func (r *JobRepository) ListActive(ctx context.Context, f job.ListFilter) (*job.ListResult, error) {
	q := supabase.NewQuery().
		Select(f.Fields).
		Eq("status", jobDatamodel.StatusActive).
		Order("created_at", false).
		Limit(f.Limit).
		Offset(f.Offset)
	if f.DepartmentID != "" {
		q.Eq("department_id", f.DepartmentID)
	}
	if f.Search != "" {
		q.ILike("title", f.Search)
	}

	resp, err := r.client.SelectWithCount(ctx, table, q)
	if err != nil {
		return nil, err
	}

	total, ok := resp.Total()
	if !ok {
		var rows []json.RawMessage
		if err := resp.Decode(&rows); err != nil {
			return nil, err
		}
		total = len(rows)
	}
	return &job.ListResult{Rows: resp.Raw(), Total: total}, nil
}

func (r *JobRepository) GetActive(ctx context.Context, id string) (*jobDatamodel.Job, error) {
	q := supabase.NewQuery().
		Select("*").
		Eq("id", id).
		Eq("status", jobDatamodel.StatusActive).
		Limit(1)

	resp, err := r.client.Select(ctx, table, q)
	if err != nil {
		return nil, err
	}

	var rows []jobDatamodel.Job
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
