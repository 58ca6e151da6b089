package message

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/hiring-gateway/internal"
	messageDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/message"
)

var ErrNotFound = internal.NewNotFoundError("消息不存在", internal.ErrCodeResourceNotFound)

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
	if filter.Box != BoxSent {
		filter.Box = BoxInbox
	}
	if filter.Status != "" {
		if err := (UpdateStatusRequest{Status: filter.Status}).Validate(); err != nil {
			return nil, err
		}
	}

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list messages", "user_id", userID, "error", err)
		return nil, internal.NewUpstreamError("获取消息失败", 0, err)
	}
	return result, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count unread messages", "user_id", userID, "error", err)
		return 0, internal.NewUpstreamError("获取未读消息数量失败", 0, err)
	}
	return n, nil
}

// Get returns a message the caller sent or received. Deleted messages stay
// readable to their sender.
func (s *Service) Get(ctx context.Context, userID, id string) (*messageDatamodel.Message, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, internal.NewUpstreamError("获取消息失败", 0, err)
	}
	if m == nil || (m.SenderID != userID && m.ReceiverID != userID) {
		return nil, ErrNotFound
	}
	if m.ReceiverID == userID && m.SenderID != userID && m.Status == messageDatamodel.StatusDeleted {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *Service) Create(ctx context.Context, senderID string, req CreateRequest) (*messageDatamodel.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = messageDatamodel.PriorityNormal
	}

	created, err := s.repo.Create(ctx, &messageDatamodel.Message{
		SenderID:   senderID,
		ReceiverID: strings.TrimSpace(req.ReceiverID),
		Subject:    req.Subject,
		Content:    req.Content,
		Status:     messageDatamodel.StatusUnread,
		Priority:   priority,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send message", "sender_id", senderID, "error", err)
		return nil, internal.NewUpstreamError("发送消息失败", 0, err)
	}
	return created, nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID, id string, req UpdateStatusRequest) (*messageDatamodel.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, userID, id, req.Status)
	if err != nil {
		return nil, internal.NewUpstreamError("更新消息状态失败", 0, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete is a soft delete.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	_, err := s.UpdateStatus(ctx, userID, id, UpdateStatusRequest{Status: messageDatamodel.StatusDeleted})
	return err
}
