package job

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/hiring-gateway/internal"
	jobDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/job"
)

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

func (s *Service) ListActive(ctx context.Context, req ListRequest) (*ListResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := s.repo.ListActive(ctx, ListFilter{
		Fields:       req.Fields,
		Limit:        req.Limit,
		Offset:       req.Offset,
		DepartmentID: strings.TrimSpace(req.DepartmentID),
		Search:       strings.TrimSpace(req.Search),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list jobs", "error", err)
		return nil, internal.NewUpstreamError("获取职位列表失败", 0, err)
	}
	return result, nil
}

func (s *Service) GetActive(ctx context.Context, id string) (*jobDatamodel.Job, error) {
	j, err := s.repo.GetActive(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get job", "job_id", id, "error", err)
		return nil, internal.NewUpstreamError("获取职位详情失败", 0, err)
	}
	if j == nil {
		return nil, internal.NewNotFoundError("职位不存在", internal.ErrCodeJobNotFound)
	}
	return j, nil
}
