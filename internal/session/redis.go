package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix    = "triage:session:"
	rescheduleKeyPrefix = "triage:reschedule:"
)

// RedisStore backs sessions with Redis so multiple replicas share state.
// Entries carry a TTL so abandoned booking flows expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures the Redis-backed session store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the sender's session state, or nil when none exists.
func (s *RedisStore) Get(ctx context.Context, senderID string) (*State, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+senderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", senderID, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", senderID, err)
	}
	return &state, nil
}

// Save stores the sender's session state. A nil state deletes the session.
func (s *RedisStore) Save(ctx context.Context, senderID string, state *State) error {
	key := sessionKeyPrefix + senderID
	if state == nil {
		return s.client.Del(ctx, key).Err()
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", senderID, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", senderID, err)
	}
	return nil
}

// Delete removes the sender's session.
func (s *RedisStore) Delete(ctx context.Context, senderID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+senderID).Err()
}

// SetRescheduleID records which appointment the sender is rescheduling.
func (s *RedisStore) SetRescheduleID(ctx context.Context, senderID, appointmentID string) error {
	return s.client.Set(ctx, rescheduleKeyPrefix+senderID, appointmentID, s.ttl).Err()
}

// RescheduleID returns the pending reschedule selection, or "" when none.
func (s *RedisStore) RescheduleID(ctx context.Context, senderID string) (string, error) {
	id, err := s.client.Get(ctx, rescheduleKeyPrefix+senderID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get reschedule selection %s: %w", senderID, err)
	}
	return id, nil
}

// ClearRescheduleID drops the pending reschedule selection.
func (s *RedisStore) ClearRescheduleID(ctx context.Context, senderID string) error {
	return s.client.Del(ctx, rescheduleKeyPrefix+senderID).Err()
}

// Count reports the number of active sessions via a key scan.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scan sessions: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
