package captcha

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	captchaDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/captcha"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnknownSession  = internal.NewValidationError("验证码会话无效", internal.ErrCodeCaptchaInvalid)
	ErrExpired         = internal.NewValidationError("验证码已过期", internal.ErrCodeCaptchaExpired)
	ErrAlreadyUsed     = internal.NewValidationError("验证码已使用", internal.ErrCodeCaptchaUsed)
	ErrNotVerified     = internal.NewValidationError("验证码尚未验证", internal.ErrCodeCaptchaInvalid)
	ErrTooManyAttempts = internal.NewValidationError("验证码错误次数过多，请重新获取", internal.ErrCodeCaptchaInvalid)
	ErrMismatch        = internal.NewValidationError("验证码错误", internal.ErrCodeCaptchaMismatch)
)

type Config struct {
	TTL         time.Duration
	MaxAttempts int
	HashCost    int
}

type Service struct {
	store  Store
	config Config
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, config Config, logger *slog.Logger) *Service {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.HashCost < bcrypt.MinCost || config.HashCost > bcrypt.MaxCost {
		config.HashCost = bcrypt.DefaultCost
	}
	return &Service{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

func randomToken() (string, error) {
	b := make([]byte, TokenLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *Service) Generate(ctx context.Context) (*GenerateResponse, error) {
	code, err := randomCode()
	if err != nil {
		return nil, internal.NewInternalError("生成验证码失败", err)
	}
	token, err := randomToken()
	if err != nil {
		return nil, internal.NewInternalError("生成验证码失败", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.config.HashCost)
	if err != nil {
		return nil, internal.NewInternalError("生成验证码失败", err)
	}

	now := s.now().UTC()
	session := &captchaDatamodel.Session{
		SessionToken: token,
		CodeHash:     string(hash),
		ExpiresAt:    now.Add(s.config.TTL),
		CreatedAt:    now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to save captcha session", "error", err)
		return nil, internal.NewInternalError("生成验证码失败", err)
	}

	return &GenerateResponse{
		Success:      true,
		SessionToken: token,
		CaptchaCode:  code,
		ExpiresAt:    session.ExpiresAt,
		Message:      "验证码生成成功",
	}, nil
}

// Verify checks a code against its session. A session verifies once; after
// that only VerifyOnly succeeds, until the session expires.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	session, err := s.store.Get(ctx, req.SessionToken)
	if err != nil {
		return internal.NewInternalError("验证码校验失败", err)
	}
	if session == nil {
		return ErrUnknownSession
	}
	if !s.now().Before(session.ExpiresAt) {
		return ErrExpired
	}

	if req.CaptchaCode == VerifyOnly {
		if !session.Verified {
			return ErrNotVerified
		}
		return nil
	}

	if session.Verified {
		return ErrAlreadyUsed
	}

	// The attempt is counted before the compare so parallel guesses share the limit.
	attempts, reserved, err := s.store.ReserveAttempt(ctx, req.SessionToken, s.config.MaxAttempts)
	if err != nil {
		return internal.NewInternalError("验证码校验失败", err)
	}
	if !reserved {
		return s.refusal(ctx, req.SessionToken)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(session.CodeHash), []byte(req.CaptchaCode)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return internal.NewInternalError("验证码校验失败", err)
		}
		remaining := s.config.MaxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		return ErrMismatch.WithDetails(map[string]int{"remainingAttempts": remaining})
	}

	won, err := s.store.MarkVerified(ctx, req.SessionToken, s.config.MaxAttempts)
	if err != nil {
		return internal.NewInternalError("验证码校验失败", err)
	}
	if !won {
		return ErrAlreadyUsed
	}
	return nil
}

// refusal explains why no attempt could be reserved.
func (s *Service) refusal(ctx context.Context, token string) error {
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return internal.NewInternalError("验证码校验失败", err)
	}
	switch {
	case session == nil:
		return ErrUnknownSession
	case session.Verified:
		return ErrAlreadyUsed
	default:
		return ErrTooManyAttempts
	}
}

// Sweep deletes expired sessions.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, s.now())
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "captcha sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.DebugContext(ctx, "expired captcha sessions removed", "count", n)
			}
		}
	}
}
