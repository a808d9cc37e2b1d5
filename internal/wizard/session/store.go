package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ms-event-setup/internal/logger"
	"ms-event-setup/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound means the session never existed or its TTL lapsed.
var ErrSessionNotFound = errors.New("wizard session not found")

const keyPrefix = "wizard_session:"

// Store persists wizard session state between requests so an organizer
// can leave and resume a draft.
type Store interface {
	Save(ctx context.Context, state models.WizardState) error
	Load(ctx context.Context, sessionID string) (*models.WizardState, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps each session as a JSON blob under
// wizard_session:<id> with a sliding TTL.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl, Logger: log}
}

// InitializeRedis connects and pings the session backend.
func InitializeRedis(addr string, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		if log != nil {
			log.Error("SESSION", fmt.Sprintf("Failed to connect to Redis at %s: %v", addr, err))
		}
		return nil, err
	}
	if log != nil {
		log.Info("SESSION", fmt.Sprintf("Connected to Redis at %s for wizard sessions", addr))
	}
	return client, nil
}

func (s *RedisStore) Save(ctx context.Context, state models.WizardState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", state.SessionID, err)
	}
	if err := s.Client.Set(ctx, keyPrefix+state.SessionID, payload, s.TTL).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", state.SessionID, err)
	}
	if s.Logger != nil {
		s.Logger.LogSession("SAVE", state.SessionID, fmt.Sprintf("step=%s", state.CurrentStep))
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*models.WizardState, error) {
	payload, err := s.Client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var state models.WizardState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &state, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	if s.Logger != nil {
		s.Logger.LogSession("DELETE", sessionID, "session discarded")
	}
	return nil
}

// MemoryStore is an in-process Store for tests and local runs without
// Redis. It honors context cancellation the same way the Redis client
// does, so callers cannot rely on a save a real backend would refuse.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, state models.WizardState) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save session %s: %w", state.SessionID, err)
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.SessionID] = payload
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*models.WizardState, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	s.mu.RLock()
	payload, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	var state models.WizardState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
