package notification

import (
	"encoding/json"
	"time"
)

type Notification struct {
	ID        string          `json:"id,omitempty"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"is_read"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}
