package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier checks backend access tokens locally against the project's HS256 secret.
type JWTVerifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func NewJWTVerifier(secret, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), audience: audience, now: time.Now}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, internal.ErrInvalidToken
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// RemoteVerifier asks the backend's user endpoint; used when no JWT secret is configured.
type RemoteVerifier struct {
	backend Backend
}

func NewRemoteVerifier(backend Backend) *RemoteVerifier {
	return &RemoteVerifier{backend: backend}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	resp, err := v.backend.GetUser(ctx, token)
	if err != nil {
		if supabase.IsStatus(err, http.StatusUnauthorized) || supabase.IsStatus(err, http.StatusForbidden) {
			return nil, internal.ErrInvalidToken.WithCause(err)
		}
		return nil, internal.NewUpstreamError("认证服务请求失败", 0, err)
	}

	var user supabase.AuthUser
	if err := resp.Decode(&user); err != nil {
		return nil, internal.NewUpstreamError("认证服务返回格式错误", 0, err)
	}
	if user.ID == "" {
		return nil, internal.ErrInvalidToken
	}
	return &Identity{UserID: user.ID, Email: user.Email}, nil
}
