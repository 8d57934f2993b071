package review

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("review session not found")

// Store persists review sessions between workbench invocations.
type Store interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type memoryRecord struct {
	expiresAt time.Time
	session   Session
}

// MemoryStore keeps sessions in-process with a TTL. Used when Redis is
// not configured; sessions do not survive a restart.
type MemoryStore struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]memoryRecord
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryRecord),
	}
}

func (m *MemoryStore) Save(_ context.Context, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = memoryRecord{
		expiresAt: time.Now().Add(m.ttl),
		session:   session,
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.sessions[id]
	if !ok || time.Now().After(record.expiresAt) {
		delete(m.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	return record.session, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
