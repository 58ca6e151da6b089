package department

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hiring-gateway/internal"
	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
)

var ErrNotFound = internal.NewNotFoundError("部门不存在", internal.ErrCodeResourceNotFound)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]jobDatamodel.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list departments", "error", err)
		return nil, internal.NewUpstreamError("获取部门列表失败", 0, err)
	}
	if departments == nil {
		departments = []jobDatamodel.Department{}
	}

	s.logger.DebugContext(ctx, "retrieved departments", "count", len(departments))
	return departments, nil
}

func (s *Service) Get(ctx context.Context, id string) (*jobDatamodel.Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get department", "department_id", id, "error", err)
		return nil, internal.NewUpstreamError("获取部门失败", 0, err)
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}
