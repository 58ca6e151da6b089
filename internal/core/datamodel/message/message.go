package message

import "time"

const (
	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
	StatusDeleted  = "deleted"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	Statuses   = []string{StatusUnread, StatusRead, StatusArchived, StatusDeleted}
	Priorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
)

type Message struct {
	ID         string     `json:"id,omitempty"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Subject    string     `json:"subject,omitempty"`
	Content    string     `json:"content"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}
