// Package console is the client side of the admin console: the session held
// by the operator, the page guards and the self-edit policy.
package console

import (
	"sync"

	"github.com/bodega-ag/inventory-gateway/internal/user"
)

// Session is the only authentication state the console keeps. It has no
// expiry; the backend decides on every call whether the token is still good.
type Session struct {
	Token       string           `json:"token"`
	Username    string           `json:"username"`
	DisplayName string           `json:"displayName"`
	AccessLevel user.AccessLevel `json:"accessLevel"`
}

func (s Session) Empty() bool {
	return s.Token == ""
}

func (s Session) IsTotal() bool {
	return s.AccessLevel == user.LevelTotal
}

// Store persists the session. Implementations are injected; there is no
// package-level session.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	return nil
}
