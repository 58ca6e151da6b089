package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/frahmantamala/hiring-gateway/internal"
	notificationDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/notification"
	"github.com/frahmantamala/hiring-gateway/internal/core/events"
)

var ErrNotFound = internal.NewNotFoundError("通知不存在", internal.ErrCodeResourceNotFound)

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

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) (*ListResult, error) {
	filter.UserID = userID
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list notifications", "user_id", userID, "error", err)
		return nil, internal.NewUpstreamError("获取通知失败", 0, err)
	}
	return result, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count unread notifications", "user_id", userID, "error", err)
		return 0, internal.NewUpstreamError("获取未读通知数量失败", 0, err)
	}
	return n, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*notificationDatamodel.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Data) > 0 && !json.Valid(req.Data) {
		return nil, internal.NewValidationError("data 必须是有效的 JSON", internal.ErrCodeValidationFailed)
	}

	created, err := s.repo.Create(ctx, &notificationDatamodel.Notification{
		UserID:  strings.TrimSpace(req.UserID),
		Type:    strings.TrimSpace(req.Type),
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create notification", "user_id", req.UserID, "error", err)
		return nil, internal.NewUpstreamError("创建通知失败", 0, err)
	}
	return created, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) (*notificationDatamodel.Notification, error) {
	updated, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return nil, internal.NewUpstreamError("标记通知已读失败", 0, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, internal.NewUpstreamError("标记全部已读失败", 0, err)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return internal.NewUpstreamError("删除通知失败", 0, err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// OnApplicationSubmitted tells the candidate their application arrived.
func (s *Service) OnApplicationSubmitted(ctx context.Context, event events.Event) error {
	evt, ok := event.(events.BaseEvent)
	if !ok {
		return nil
	}
	candidateID := evt.String("candidate_id")
	if candidateID == "" {
		return nil
	}

	data, err := json.Marshal(map[string]string{
		"applicationId": evt.String("application_id"),
		"jobId":         evt.String("job_id"),
	})
	if err != nil {
		return err
	}

	_, err = s.repo.Create(ctx, &notificationDatamodel.Notification{
		UserID:  candidateID,
		Type:    TypeApplicationSubmitted,
		Title:   "申请已提交",
		Message: "您的职位申请已成功提交，我们会尽快处理。",
		Data:    data,
	})
	return err
}

// OnApplicationStatusChanged tells the candidate HR moved their application.
func (s *Service) OnApplicationStatusChanged(ctx context.Context, event events.Event) error {
	evt, ok := event.(events.BaseEvent)
	if !ok {
		return nil
	}
	candidateID := evt.String("candidate_id")
	if candidateID == "" {
		return nil
	}

	status := evt.String("status")
	data, err := json.Marshal(map[string]string{
		"applicationId": evt.String("application_id"),
		"jobId":         evt.String("job_id"),
		"status":        status,
	})
	if err != nil {
		return err
	}

	_, err = s.repo.Create(ctx, &notificationDatamodel.Notification{
		UserID:  candidateID,
		Type:    TypeApplicationStatus,
		Title:   "申请状态更新",
		Message: "您的职位申请状态已更新为：" + status,
		Data:    data,
	})
	return err
}
