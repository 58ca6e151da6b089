package captcha

import "time"

// Session is a captcha challenge kept on the server, keyed by its token.
type Session struct {
	SessionToken string    `gorm:"column:session_token;primaryKey;size:64"`
	CodeHash     string    `gorm:"column:code_hash;not null"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null;index"`
	Verified     bool      `gorm:"column:verified;not null;default:false"`
	Attempts     int       `gorm:"column:attempts;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (Session) TableName() string {
	return "captcha_sessions"
}
