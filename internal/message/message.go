package message

import (
	"context"
	"encoding/json"

	messageDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/message"
)

const (
	BoxInbox = "inbox"
	BoxSent  = "sent"
)

type ListFilter struct {
	UserID string
	Box    string
	// Status empty means everything except deleted.
	Status string
	Limit  int
	Offset int
}

type ListResult struct {
	Rows  json.RawMessage
	Total int
}

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	CountUnread(ctx context.Context, receiverID string) (int, error)
	// Get returns nil, nil when id does not exist.
	Get(ctx context.Context, id string) (*messageDatamodel.Message, error)
	Create(ctx context.Context, m *messageDatamodel.Message) (*messageDatamodel.Message, error)
	// UpdateStatus only touches messages addressed to receiverID; nil, nil otherwise.
	UpdateStatus(ctx context.Context, receiverID, id, status string) (*messageDatamodel.Message, error)
}
