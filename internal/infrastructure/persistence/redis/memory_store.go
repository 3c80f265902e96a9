package redis

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
)

// MemorySessionStore is the in-process fallback used when Redis is disabled.
// Sessions expire lazily on read after the standard TTL.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
}

type memorySession struct {
	state     models.SessionState
	expiresAt time.Time
}

var _ repository.SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		ttl:      constants.SessionTTL,
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			s.mu.Lock()
			delete(s.sessions, sessionID)
			s.mu.Unlock()
		}
		return nil, errors.New(errors.CodeNotFound, "session not found: "+sessionID)
	}
	state := entry.state
	return &state, nil
}

func (s *MemorySessionStore) Put(ctx context.Context, state *models.SessionState) error {
	if state.SessionID == "" {
		return errors.New(errors.CodeInvalidArgument, "session id is required")
	}
	state.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.SessionID] = memorySession{
		state:     *state,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
