package postgrest

import (
	"context"
	"time"

	messageDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/message"
	"github.com/frahmantamala/hiring-gateway/internal/message"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const table = "messages"

type MessageRepository struct {
	client *supabase.Client
	now    func() time.Time
}

func NewMessageRepository(client *supabase.Client) *MessageRepository {
	return &MessageRepository{client: client, now: time.Now}
}

func (r *MessageRepository) List(ctx context.Context, f message.ListFilter) (*message.ListResult, error) {
	q := supabase.NewQuery().
		Select("*").
		Order("created_at", false).
		Limit(f.Limit).
		Offset(f.Offset)
	if f.Box == message.BoxSent {
		q.Eq("sender_id", f.UserID)
	} else {
		q.Eq("receiver_id", f.UserID)
	}
	if f.Status != "" {
		q.Eq("status", f.Status)
	} else {
		q.Neq("status", messageDatamodel.StatusDeleted)
	}

	resp, err := r.client.SelectWithCount(ctx, table, q)
	if err != nil {
		return nil, err
	}
	total, _ := resp.Total()
	return &message.ListResult{Rows: resp.Raw(), Total: total}, nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	return r.client.Count(ctx, table, supabase.NewQuery().
		Eq("receiver_id", receiverID).
		Eq("status", messageDatamodel.StatusUnread))
}

func (r *MessageRepository) Get(ctx context.Context, id string) (*messageDatamodel.Message, error) {
	resp, err := r.client.Select(ctx, table, supabase.NewQuery().Select("*").Eq("id", id).Limit(1))
	if err != nil {
		return nil, err
	}
	return firstRow(resp)
}

func (r *MessageRepository) Create(ctx context.Context, m *messageDatamodel.Message) (*messageDatamodel.Message, error) {
	resp, err := r.client.Insert(ctx, table, m)
	if err != nil {
		return nil, err
	}
	stored, err := firstRow(resp)
	if err != nil || stored == nil {
		return m, err
	}
	return stored, nil
}

func (r *MessageRepository) UpdateStatus(ctx context.Context, receiverID, id, status string) (*messageDatamodel.Message, error) {
	patch := map[string]interface{}{"status": status}
	switch status {
	case messageDatamodel.StatusRead:
		patch["read_at"] = r.now().UTC()
	case messageDatamodel.StatusUnread:
		patch["read_at"] = nil
	}

	resp, err := r.client.Update(ctx, table,
		supabase.NewQuery().Eq("id", id).Eq("receiver_id", receiverID),
		patch)
	if err != nil {
		return nil, err
	}
	return firstRow(resp)
}

func firstRow(resp *supabase.Response) (*messageDatamodel.Message, error) {
	var rows []messageDatamodel.Message
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
