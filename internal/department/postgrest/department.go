package postgrest

import (
	"context"

	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const table = "departments"

type DepartmentRepository struct {
	client *supabase.Client
}

func NewDepartmentRepository(client *supabase.Client) *DepartmentRepository {
	return &DepartmentRepository{client: client}
}

func (r *DepartmentRepository) List(ctx context.Context) ([]jobDatamodel.Department, error) {
	resp, err := r.client.Select(ctx, table, supabase.NewQuery().Select("*").Order("name", true))
	if err != nil {
		return nil, err
	}

	var rows []jobDatamodel.Department
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*jobDatamodel.Department, error) {
	resp, err := r.client.Select(ctx, table, supabase.NewQuery().Select("*").Eq("id", id).Limit(1))
	if err != nil {
		return nil, err
	}

	var rows []jobDatamodel.Department
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
