package auth

import (
	"context"

	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the gateway reads from a backend-issued access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is who a verified token belongs to.
type Identity struct {
	UserID string
	Email  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// RoleRepository reads the authoritative role column. found is false when the
// user has no row yet.
type RoleRepository interface {
	RoleOf(ctx context.Context, userID string) (role string, found bool, err error)
	EnsureUser(ctx context.Context, userID, email, role string) error
}

// Backend is the slice of the backend auth API the service forwards to.
type Backend interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Response, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*supabase.Response, error)
	GetUser(ctx context.Context, accessToken string) (*supabase.Response, error)
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.Response, error)
	SignOut(ctx context.Context, accessToken string) error
}
