package sessionstore

import (
	"Eventra/internal/entity"
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemory returns a process-local store. Sessions live for the
// process lifetime; entries are JSON snapshots so Get/Save copy
// semantics match the Redis implementation exactly.
func NewMemory() Store {
	return &memoryStore{sessions: map[string][]byte{}}
}

func (m *memoryStore) GetOrCreate(ctx context.Context, id string) (*entity.Session, error) {
	session, err := m.Get(ctx, id)
	if err == nil {
		return session, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	session = entity.NewSession(id)
	if err := m.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.RLock()
	raw, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *memoryStore) Save(_ context.Context, session *entity.Session) error {
	session.LastActivity = time.Now()

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions[session.ID] = raw
	m.mu.Unlock()
	return nil
}
