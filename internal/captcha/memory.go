package captcha

import (
	"context"
	"sync"
	"time"

	captchaDatamodel "github.com/frahmantamala/hiring-gateway/internal/core/datamodel/captcha"
)

// MemoryStore keeps sessions in process. Fine for a single instance.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]captchaDatamodel.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]captchaDatamodel.Session)}
}

func (m *MemoryStore) Save(_ context.Context, s *captchaDatamodel.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionToken] = *s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*captchaDatamodel.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) ReserveAttempt(_ context.Context, token string, max int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || s.Verified || s.Attempts >= max {
		return s.Attempts, false, nil
	}
	s.Attempts++
	m.sessions[token] = s
	return s.Attempts, true, nil
}

func (m *MemoryStore) MarkVerified(_ context.Context, token string, max int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || s.Verified || s.Attempts > max {
		return false, nil
	}
	s.Verified = true
	m.sessions[token] = s
	return true, nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, s := range m.sessions {
		if !s.ExpiresAt.After(before) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
