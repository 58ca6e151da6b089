package user

import "time"

// User is the authoritative role record in the backend's users table.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Profile is a row of user_profiles, keyed by user_id.
type Profile struct {
	UserID    string     `json:"user_id"`
	FullName  string     `json:"full_name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
