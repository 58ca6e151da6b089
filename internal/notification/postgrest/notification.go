package postgrest

import (
	"context"
	"encoding/json"
	"time"

	notificationDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/notification"
	"github.com/frahmantamala/hiring-gateway/internal/notification"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
)

const table = "notifications"

type NotificationRepository struct {
	client *supabase.Client
}

func NewNotificationRepository(client *supabase.Client) *NotificationRepository {
	return &NotificationRepository{client: client}
}

func (r *NotificationRepository) List(ctx context.Context, f notification.ListFilter) (*notification.ListResult, error) {
	q := supabase.NewQuery().
		Select("*").
		Eq("user_id", f.UserID).
		Order("created_at", false).
		Limit(f.Limit).
		Offset(f.Offset)
	if f.Type != "" {
		q.Eq("type", f.Type)
	}
	if f.IsRead != nil {
		q.Eq("is_read", *f.IsRead)
	}

	resp, err := r.client.SelectWithCount(ctx, table, q)
	if err != nil {
		return nil, err
	}
	total, _ := resp.Total()
	return &notification.ListResult{Rows: resp.Raw(), Total: total}, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	return r.client.Count(ctx, table, supabase.NewQuery().
		Eq("user_id", userID).
		Eq("is_read", false))
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDatamodel.Notification) (*notificationDatamodel.Notification, error) {
	resp, err := r.client.Insert(ctx, table, n)
	if err != nil {
		return nil, err
	}
	return firstRow(resp, n)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) (*notificationDatamodel.Notification, error) {
	resp, err := r.client.Update(ctx, table,
		supabase.NewQuery().Eq("id", id).Eq("user_id", userID),
		map[string]interface{}{"is_read": true, "read_at": time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return firstRow(resp, nil)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	resp, err := r.client.Update(ctx, table,
		supabase.NewQuery().Eq("user_id", userID).Eq("is_read", false),
		map[string]interface{}{"is_read": true, "read_at": time.Now().UTC()})
	if err != nil {
		return 0, err
	}
	var rows []json.RawMessage
	if err := resp.Decode(&rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	resp, err := r.client.Delete(ctx, table, supabase.NewQuery().Eq("id", id).Eq("user_id", userID))
	if err != nil {
		return false, err
	}
	var rows []json.RawMessage
	if err := resp.Decode(&rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func firstRow(resp *supabase.Response, fallback *notificationDatamodel.Notification) (*notificationDatamodel.Notification, error) {
	var rows []notificationDatamodel.Notification
	if err := resp.Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return fallback, nil
	}
	return &rows[0], nil
}
