package session

import "sync"

// Store keeps sessions by user id. The tracker is its only caller and
// always passes and expects private copies.
type Store interface {
	Get(userID int64) (*Session, bool)
	Save(s *Session)
	Delete(userID int64)
}

// MapStore is an unbounded in-process Store without expiry.
type MapStore struct {
	mu   sync.RWMutex
	data map[int64]*Session
}

func NewMapStore() *MapStore {
	return &MapStore{data: make(map[int64]*Session)}
}

func (m *MapStore) Get(userID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[userID]
	return s, ok
}

func (m *MapStore) Save(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.UserID] = s
}

func (m *MapStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
}
