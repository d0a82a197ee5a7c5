// internal/session/session.go

// Package session holds the signed-in user's bearer credential. A Manager is
// created once at start-up, loads any persisted credential, and is passed
// explicitly to whatever needs the session.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrEmptyCredential is returned when Begin is given an empty token.
var ErrEmptyCredential = errors.New("session: empty credential")

// Session is one signed-in lifetime of a credential.
type Session struct {
	token     string
	claims    *Claims
	startedAt time.Time
}

// Token is the bearer credential sent to the backend.
func (s *Session) Token() string {
	return s.token
}

// Wallet returns the wallet address carried in the credential, if any.
func (s *Session) Wallet() string {
	if s.claims == nil {
		return ""
	}
	return s.claims.WalletAddress
}

// StartedAt is when the session was begun or loaded.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// ExpiresAt returns the credential's expiry when it declares one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s.claims == nil || s.claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return s.claims.ExpiresAt.Time, true
}

// Manager owns the in-memory session and its persisted copy.
type Manager struct {
	store  Store
	sealer *Sealer
	now    func() time.Time

	mu      sync.RWMutex
	current *Session
}

// NewManager returns a manager with no active session; call Load to pick
// up a persisted credential.
func NewManager(store Store, sealer *Sealer) *Manager {
	return &Manager{store: store, sealer: sealer, now: time.Now}
}

// Load initialises the session from storage. A stored credential whose JWT
// expiry has passed, or that cannot be opened, is cleared and no session is
// returned.
func (m *Manager) Load() (*Session, error) {
	stored, ok, err := m.store.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || strings.TrimSpace(stored) == "" {
		return nil, nil
	}

	token, err := m.sealer.Open(stored)
	if err != nil {
		logrus.WithError(err).Warn("Discarding unreadable stored credential")
		return nil, m.End()
	}

	sess := m.newSession(token)
	if sess.claims.Expired(m.now()) {
		logrus.Info("Stored credential has expired")
		return nil, m.End()
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()
	return sess, nil
}

// Current returns the active session or nil.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Begin persists token and makes it the active session.
func (m *Manager) Begin(token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyCredential
	}

	sealed, err := m.sealer.Seal(token)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(StorageKey, sealed); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	sess := m.newSession(token)
	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()
	return sess, nil
}

// End clears the in-memory session and the persisted credential. The
// in-memory value is dropped even when storage fails.
func (m *Manager) End() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Remove(StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) newSession(token string) *Session {
	claims, err := ParseClaims(token)
	if err != nil {
		claims = nil
	}
	return &Session{token: token, claims: claims, startedAt: m.now()}
}
