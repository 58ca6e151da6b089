package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
)

var (
	ErrInvalidCredentials = internal.NewUnauthorizedError("邮箱或密码错误", internal.ErrCodeInvalidCredentials)
	ErrRegisterFailed     = internal.NewValidationError("注册失败", internal.ErrCodeValidationFailed)
	ErrRefreshFailed      = internal.NewUnauthorizedError("刷新令牌无效", internal.ErrCodeInvalidToken)
)

// Service forwards auth calls to the backend and resolves roles. It holds no
// session state of its own.
type Service struct {
	backend  Backend
	verifier TokenVerifier
	roles    RoleRepository
	logger   *slog.Logger
}

func NewService(backend Backend, verifier TokenVerifier, roles RoleRepository, logger *slog.Logger) *Service {
	return &Service{
		backend:  backend,
		verifier: verifier,
		roles:    roles,
		logger:   logger,
	}
}

// backendFailure maps a backend auth rejection to status, keeping the backend
// text as details. Transport failures stay 500.
func backendFailure(err error, rejected *internal.AppError) error {
	var apiErr *supabase.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return rejected.WithCause(err).WithDetails(apiErr.Error())
	}
	return internal.NewUpstreamError("认证服务请求失败", 0, err)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.backend.SignInWithPassword(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "login rejected", "error", err)
		return nil, backendFailure(err, ErrInvalidCredentials)
	}
	return resp.Raw(), nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	metadata := map[string]interface{}{"role": string(permission.RoleCandidate)}
	if req.Name != "" {
		metadata["name"] = req.Name
	}

	resp, err := s.backend.SignUp(ctx, email, req.Password, metadata)
	if err != nil {
		s.logger.WarnContext(ctx, "registration rejected", "error", err)
		return nil, backendFailure(err, ErrRegisterFailed)
	}

	// signup answers either the user or a session wrapping it
	var body struct {
		ID   string `json:"id"`
		User *struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	_ = resp.Decode(&body)
	userID := body.ID
	if userID == "" && body.User != nil {
		userID = body.User.ID
	}
	if userID != "" && s.roles != nil {
		if err := s.roles.EnsureUser(ctx, userID, email, string(permission.RoleCandidate)); err != nil {
			s.logger.WarnContext(ctx, "failed to create user role row", "user_id", userID, "error", err)
		}
	}

	return resp.Raw(), nil
}

func (s *Service) CurrentUser(ctx context.Context, token string) (*CurrentUser, error) {
	if token == "" {
		return nil, internal.ErrMissingToken
	}

	resp, err := s.backend.GetUser(ctx, token)
	if err != nil {
		return nil, backendFailure(err, internal.ErrInvalidToken)
	}

	var user supabase.AuthUser
	if err := resp.Decode(&user); err != nil {
		return nil, internal.NewUpstreamError("认证服务返回格式错误", 0, err)
	}

	role, err := s.ResolveRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{User: resp.Raw(), Role: string(role)}, nil
}

func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.backend.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		return nil, backendFailure(err, ErrRefreshFailed)
	}
	return resp.Raw(), nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return internal.ErrMissingToken
	}
	if err := s.backend.SignOut(ctx, token); err != nil {
		return backendFailure(err, internal.ErrInvalidToken)
	}
	return nil
}

// Authenticate verifies token and attaches the stored role.
func (s *Service) Authenticate(ctx context.Context, token string) (*internal.Principal, error) {
	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	role, err := s.ResolveRole(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	return &internal.Principal{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  role,
		Token: token,
	}, nil
}

// ResolveRole reads users.role. A user without a row, or with an unknown
// value, is a candidate.
func (s *Service) ResolveRole(ctx context.Context, userID string) (permission.Role, error) {
	if s.roles == nil || userID == "" {
		return permission.RoleCandidate, nil
	}

	stored, found, err := s.roles.RoleOf(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read user role", "user_id", userID, "error", err)
		return "", internal.NewUpstreamError("获取用户角色失败", 0, err)
	}
	if !found {
		return permission.RoleCandidate, nil
	}

	role, ok := permission.ParseRole(stored)
	if !ok {
		s.logger.WarnContext(ctx, "unknown stored role, treating as candidate", "user_id", userID, "role", stored)
		return permission.RoleCandidate, nil
	}
	return role, nil
}
