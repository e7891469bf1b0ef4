package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation.
// Intended for local development and tests; sessions do not survive
// process restarts.
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]*Session
	byID    map[string]string // session ID -> current token
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[string]*Session),
		byID:    make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	if s.Token == "" || s.ID == "" {
		return ErrInvalidToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byToken[s.Token] = clone(s)
	m.byID[s.ID] = s.Token
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.byToken[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		m.mu.Lock()
		delete(m.byToken, token)
		delete(m.byID, sess.ID)
		m.mu.Unlock()
		return nil, ErrExpired
	}
	return clone(sess), nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldToken, ok := m.byID[s.ID]
	if !ok {
		return ErrNotFound
	}
	// Token rotation: drop the old entry before storing under the new token.
	if oldToken != s.Token {
		delete(m.byToken, oldToken)
	}
	m.byToken[s.Token] = clone(s)
	m.byID[s.ID] = s.Token
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.byID[id]
	if !ok {
		return nil
	}
	delete(m.byToken, token)
	delete(m.byID, id)
	return nil
}

func (m *MemoryStore) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, sess := range m.byToken {
		if sess.User != nil && sess.User.ID == userID {
			delete(m.byToken, token)
			delete(m.byID, sess.ID)
		}
	}
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, lastActiveAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.byToken[token].LastActiveAt = lastActiveAt
	return nil
}

// clone copies a session so callers never share memory with the store.
func clone(s *Session) *Session {
	cp := *s
	if s.User != nil {
		user := *s.User
		cp.User = &user
	}
	if s.Messages != nil {
		cp.Messages = make([]Message, len(s.Messages))
		copy(cp.Messages, s.Messages)
	}
	return &cp
}
