package postgrest

import (
	"context"

	userDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/user"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const (
	usersTable    = "users"
	profilesTable = "user_profiles"
)

type UserRepository struct {
	client *supabase.Client
}

func NewUserRepository(client *supabase.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*userDatamodel.User, error) {
	resp, err := r.client.Select(ctx, usersTable, supabase.NewQuery().Eq("id", userID).Limit(1))
	if err != nil {
		return nil, err
	}

	var rows []userDatamodel.User
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*userDatamodel.Profile, error) {
	resp, err := r.client.Select(ctx, profilesTable, supabase.NewQuery().Eq("user_id", userID).Limit(1))
	if err != nil {
		return nil, err
	}
	return firstProfile(resp)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, patch map[string]string) (*userDatamodel.Profile, error) {
	resp, err := r.client.Update(ctx, profilesTable, supabase.NewQuery().Eq("user_id", userID), patch)
	if err != nil {
		return nil, err
	}
	return firstProfile(resp)
}

func (r *UserRepository) CreateProfile(ctx context.Context, profile *userDatamodel.Profile) (*userDatamodel.Profile, error) {
	resp, err := r.client.Insert(ctx, profilesTable, profile)
	if err != nil {
		return nil, err
	}
	created, err := firstProfile(resp)
	if err != nil || created == nil {
		return profile, err
	}
	return created, nil
}

func firstProfile(resp *supabase.Response) (*userDatamodel.Profile, error) {
	var rows []userDatamodel.Profile
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
