package postgres

import (
	"context"
	"errors"
	"time"

	captchaDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/captcha"
	"gorm.io/gorm"
)

// SessionStore keeps captcha sessions in the captcha_sessions table so every
// gateway instance sees the same state.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Save(ctx context.Context, session *captchaDatamodel.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *SessionStore) Get(ctx context.Context, token string) (*captchaDatamodel.Session, error) {
	var session captchaDatamodel.Session
	err := s.db.WithContext(ctx).Where("session_token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// ReserveAttempt increments attempts with a conditional update, so concurrent
// callers can never push the count past max.
func (s *SessionStore) ReserveAttempt(ctx context.Context, token string, max int) (int, bool, error) {
	var (
		attempts int
		reserved bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&captchaDatamodel.Session{}).
			Where("session_token = ? AND verified = ? AND attempts < ?", token, false, max).
			Update("attempts", gorm.Expr("attempts + 1"))
		if result.Error != nil {
			return result.Error
		}
		reserved = result.RowsAffected == 1
		return tx.Model(&captchaDatamodel.Session{}).
			Where("session_token = ?", token).
			Select("attempts").
			Scan(&attempts).Error
	})
	if err != nil {
		return 0, false, err
	}
	return attempts, reserved, nil
}

// MarkVerified relies on the conditional update for single use.
func (s *SessionStore) MarkVerified(ctx context.Context, token string, max int) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&captchaDatamodel.Session{}).
		Where("session_token = ? AND verified = ? AND attempts <= ?", token, false, max).
		Update("verified", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *SessionStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", before).
		Delete(&captchaDatamodel.Session{})
	return result.RowsAffected, result.Error
}
