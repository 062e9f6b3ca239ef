package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flowshift/quoter/common/aggregation"
	"github.com/flowshift/quoter/common/logger"
	redisclient "github.com/flowshift/quoter/common/redis"
	"github.com/google/uuid"
)

const (
	keyPrefix         = "quoter:session:"
	defaultMaxRetries = 5
)

// RedisStore keeps sessions as JSON documents so several API instances can
// share them. Updates use optimistic WATCH/MULTI transactions.
type RedisStore struct {
	client     *redisclient.Client
	ttl        time.Duration
	maxRetries int
	log        *logger.Logger
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client *redisclient.Client, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client:     client,
		ttl:        ttl,
		maxRetries: defaultMaxRetries,
		log:        log,
	}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Create starts a new empty session
func (s *RedisStore) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.New().String(),
		State:     aggregation.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	created, err := s.client.SetNX(ctx, sessionKey(sess.ID), string(data), s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if !created {
		return nil, fmt.Errorf("session id collision: %s", sess.ID)
	}

	return sess, nil
}

// Get loads a session
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id))
	if errors.Is(err, redisclient.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return decodeSession(raw)
}

// Update applies fn inside a WATCH transaction, retrying on conflicts
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*aggregation.State) error) (*Session, error) {
	var updated *Session

	err := s.client.Update(ctx, sessionKey(id), s.ttl, s.maxRetries, func(current string) (string, error) {
		sess, err := decodeSession(current)
		if err != nil {
			return "", err
		}

		if err := fn(sess.State); err != nil {
			return "", err
		}
		sess.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(sess)
		if err != nil {
			return "", fmt.Errorf("failed to encode session: %w", err)
		}

		updated = sess
		return string(data), nil
	})
	if errors.Is(err, redisclient.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a session
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Delete(ctx, sessionKey(id))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close is a no-op, the Redis connection is owned by bootstrap
func (s *RedisStore) Close() error {
	return nil
}

func decodeSession(raw string) (*Session, error) {
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.State == nil {
		sess.State = aggregation.New()
	}
	return &sess, nil
}
