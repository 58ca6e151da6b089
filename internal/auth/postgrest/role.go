package postgrest

import (
	"context"

	userDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/user"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const usersTable = "users"

type RoleRepository struct {
	client *supabase.Client
}

func NewRoleRepository(client *supabase.Client) *RoleRepository {
	return &RoleRepository{client: client}
}

func (r *RoleRepository) RoleOf(ctx context.Context, userID string) (string, bool, error) {
	q := supabase.NewQuery().
		Select("role").
		Eq("id", userID).
		Limit(1)

	resp, err := r.client.Select(ctx, usersTable, q)
	if err != nil {
		return "", false, err
	}

	var rows []userDatamodel.User
	if err := resp.Decode(&rows); err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Role, true, nil
}

// EnsureUser inserts the role row for a freshly registered account. An
// existing row wins.
func (r *RoleRepository) EnsureUser(ctx context.Context, userID, email, role string) error {
	_, err := r.client.Insert(ctx, usersTable, userDatamodel.User{ID: userID, Email: email, Role: role})
	if supabase.IsUniqueViolation(err) {
		return nil
	}
	return err
}
