package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	appDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/application"
	"github.com/frahmantamala/hiring-gateway/internal/core/events"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
)

var ErrDuplicate = internal.NewValidationError("您已经申请过这个职位了", internal.ErrCodeDuplicateApplication)

type Service struct {
	repo   RepositoryAPI
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the service; publisher may be nil, in which case no events are emitted.
func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

// Submit records an application. The existence check is only a fast path; the
// unique index on (job_id, candidate_id) decides races, and its violation is
// reported the same way.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.JobID = strings.TrimSpace(req.JobID)
	req.CandidateID = strings.TrimSpace(req.CandidateID)

	exists, err := s.repo.Exists(ctx, req.JobID, req.CandidateID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to check existing application", "error", err)
		return nil, internal.NewUpstreamError("检查申请记录失败", 0, err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	created, err := s.repo.Create(ctx, &appDatamodel.Application{
		JobID:       req.JobID,
		CandidateID: req.CandidateID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
		Status:      appDatamodel.StatusPending,
		AppliedAt:   s.now().UTC(),
	})
	if err != nil {
		if supabase.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		s.logger.ErrorContext(ctx, "failed to create application", "error", err)
		return nil, internal.NewUpstreamError("提交申请失败", 0, err)
	}

	s.logger.InfoContext(ctx, "application submitted",
		"application_id", created.ID,
		"job_id", created.JobID,
		"candidate_id", created.CandidateID)

	if s.events != nil {
		evt := events.NewApplicationSubmittedEvent(created.ID, created.JobID, created.CandidateID)
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.WarnContext(ctx, "failed to publish application event", "error", err)
		}
	}

	return &SubmitResult{ApplicationID: created.ID, SubmittedAt: created.AppliedAt}, nil
}

// List scopes the query by role: callers without view_all_applications only
// ever see their own rows, whatever candidate filter they pass.
func (s *Service) List(ctx context.Context, caller *internal.Principal, filter ListFilter) (*ListResult, error) {
	if !caller.Role.Can(permission.FeatureViewAllApplications) {
		filter.CandidateID = caller.ID
	}

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list applications", "error", err)
		return nil, internal.NewUpstreamError("获取申请列表失败", 0, err)
	}
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*appDatamodel.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, strings.TrimSpace(req.Status))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update application status", "application_id", id, "error", err)
		return nil, internal.NewUpstreamError("更新申请状态失败", 0, err)
	}
	if updated == nil {
		return nil, internal.NewNotFoundError("申请不存在", internal.ErrCodeResourceNotFound)
	}

	if s.events != nil {
		evt := events.NewApplicationStatusChangedEvent(updated.ID, updated.JobID, updated.CandidateID, updated.Status)
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.WarnContext(ctx, "failed to publish application event", "error", err)
		}
	}
	return updated, nil
}
