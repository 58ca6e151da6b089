package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hiring-gateway/internal"
	userDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/user"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Me returns the caller's user row, profile and the permissions their role grants.
// A caller without a users row still gets the role resolved at authentication.
func (s *Service) Me(ctx context.Context, caller *internal.Principal) (*Me, error) {
	u, err := s.repo.GetByID(ctx, caller.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get user", "user_id", caller.ID, "error", err)
		return nil, internal.NewUpstreamError("获取用户信息失败", 0, err)
	}
	if u == nil {
		u = &userDatamodel.User{ID: caller.ID, Email: caller.Email, Role: string(caller.Role)}
	}

	profile, err := s.repo.GetProfile(ctx, caller.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get profile", "user_id", caller.ID, "error", err)
		return nil, internal.NewUpstreamError("获取用户资料失败", 0, err)
	}

	return &Me{
		User:     u,
		Profile:  profile,
		Role:     string(caller.Role),
		Features: permission.FeaturesFor(caller.Role),
		Pages:    permission.PagesFor(caller.Role),
	}, nil
}

// UpdateProfile patches the caller's profile, creating it on first write.
func (s *Service) UpdateProfile(ctx context.Context, caller *internal.Principal, req UpdateProfileRequest) (*userDatamodel.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, caller.ID, req.patch())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update profile", "user_id", caller.ID, "error", err)
		return nil, internal.NewUpstreamError("更新用户资料失败", 0, err)
	}
	if updated != nil {
		return updated, nil
	}

	profile := &userDatamodel.Profile{UserID: caller.ID}
	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	created, err := s.repo.CreateProfile(ctx, profile)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create profile", "user_id", caller.ID, "error", err)
		return nil, internal.NewUpstreamError("更新用户资料失败", 0, err)
	}
	return created, nil
}
