package captcha

import (
	"context"
	"time"

	captchaDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/captcha"
)

// VerifyOnly as the code checks that a session was already verified instead of comparing codes.
const VerifyOnly = "VERIFY_ONLY"

const (
	DefaultTTL         = 5 * time.Minute
	DefaultMaxAttempts = 5
	CodeLength         = 4
	TokenLength        = 32
)

// Store keeps captcha sessions server side. ReserveAttempt and MarkVerified
// must each be atomic per session.
type Store interface {
	Save(ctx context.Context, s *captchaDatamodel.Session) error
	// Get returns nil, nil when the session does not exist.
	Get(ctx context.Context, token string) (*captchaDatamodel.Session, error)
	// ReserveAttempt counts one code check before it runs. It refuses, with
	// false, a verified session or one that already used max attempts.
	ReserveAttempt(ctx context.Context, token string, max int) (int, bool, error)
	// MarkVerified succeeds for exactly one caller, and only while the
	// session is within max attempts.
	MarkVerified(ctx context.Context, token string, max int) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
