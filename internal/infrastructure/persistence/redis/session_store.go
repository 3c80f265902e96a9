// Package redis implements the session store. Redis keeps per-session
// dashboard state across instances; a process-local fallback serves
// single-instance demo runs where no Redis is available.
package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

const sessionKeyPrefix = "jalak:session:"

// SessionStoreImpl implements SessionStore on Redis with a TTL per session.
type SessionStoreImpl struct {
	client *goredis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ repository.SessionStore = (*SessionStoreImpl)(nil)

// NewSessionStore connects to Redis and verifies the connection.
func NewSessionStore(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*SessionStoreImpl, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to connect to redis")
	}

	log.Info(ctx, "redis session store ready", logger.Fields{"address": cfg.Address})
	return &SessionStoreImpl{
		client: client,
		ttl:    constants.SessionTTL,
		logger: log.WithComponent("session-store"),
	}, nil
}

// Get retrieves a session, or a NotFound error when absent or expired.
func (s *SessionStoreImpl) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == goredis.Nil {
		return nil, errors.New(errors.CodeNotFound, "session not found: "+sessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to read session")
	}

	var state models.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "corrupt session payload")
	}
	return &state, nil
}

// Put stores a session and refreshes its TTL.
func (s *SessionStoreImpl) Put(ctx context.Context, state *models.SessionState) error {
	if state.SessionID == "" {
		return errors.New(errors.CodeInvalidArgument, "session id is required")
	}
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode session")
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+state.SessionID, data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "failed to write session")
	}
	return nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *SessionStoreImpl) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "failed to delete session")
	}
	return nil
}

// Close releases the Redis connection pool.
func (s *SessionStoreImpl) Close() error {
	return s.client.Close()
}
