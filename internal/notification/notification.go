package notification

import (
	"context"
	"encoding/json"

	notificationDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/notification"
)

const (
	TypeApplicationSubmitted = "application_submitted"
	TypeApplicationStatus    = "application_status"
)

type ListFilter struct {
	UserID string
	Type   string
	IsRead *bool
	Limit  int
	Offset int
}

type ListResult struct {
	Rows  json.RawMessage
	Total int
}

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, n *notificationDatamodel.Notification) (*notificationDatamodel.Notification, error)
	// MarkRead returns nil, nil when the notification does not exist for userID.
	MarkRead(ctx context.Context, userID, id string) (*notificationDatamodel.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}
