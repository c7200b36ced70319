package admin

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type session struct {
	Username  string
	ExpiresAt time.Time
}

// tokenManager keeps admin sessions in memory. Sessions do not survive a
// restart; staff simply log in again.
type tokenManager struct {
	mu     sync.RWMutex
	tokens map[string]session
	now    func() time.Time
}

func newTokenManager() *tokenManager {
	return &tokenManager{
		tokens: make(map[string]session),
		now:    time.Now,
	}
}

func (m *tokenManager) Issue(username string, ttl time.Duration) (string, time.Time, error) {
	token, err := randomToken()
	if err != nil {
		return "", time.Time{}, err
	}
	now := m.now()
	expires := now.Add(ttl)

	m.mu.Lock()
	for t, s := range m.tokens {
		if now.After(s.ExpiresAt) {
			delete(m.tokens, t)
		}
	}
	m.tokens[token] = session{Username: username, ExpiresAt: expires}
	m.mu.Unlock()
	return token, expires, nil
}

func (m *tokenManager) Validate(token string) (session, bool) {
	m.mu.RLock()
	s, ok := m.tokens[token]
	m.mu.RUnlock()
	if !ok {
		return session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		m.Revoke(token)
		return session{}, false
	}
	return s, true
}

func (m *tokenManager) Revoke(token string) {
	m.mu.Lock()
	delete(m.tokens, token)
	m.mu.Unlock()
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
