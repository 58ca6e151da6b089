package user

import (
	"context"

	userDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/user"
)

// Repository reads users and their profiles. Lookups return nil, nil when the
// row does not exist.
type Repository interface {
	GetByID(ctx context.Context, userID string) (*userDatamodel.User, error)
	GetProfile(ctx context.Context, userID string) (*userDatamodel.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch map[string]string) (*userDatamodel.Profile, error)
	CreateProfile(ctx context.Context, profile *userDatamodel.Profile) (*userDatamodel.Profile, error)
}

// Me is the caller's own account as the gateway sees it.
type Me struct {
	User     *userDatamodel.User    `json:"user"`
	Profile  *userDatamodel.Profile `json:"profile"`
	Role     string                 `json:"role"`
	Features []string               `json:"features"`
	Pages    []string               `json:"pages"`
}
