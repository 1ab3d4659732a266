package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/blockgrid/pkg/observability"
)

// keyPrefix namespaces session keys so blockgrid can share a Redis
// instance with other services.
const keyPrefix = "blockgrid:session:"

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	TTL      time.Duration `toml:"ttl"` // 0 means sessions never expire
}

// RedisStore persists sessions in Redis for multi-instance deployments.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Get retrieves a session by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.Store().OnLoad(ctx, "redis", id, ErrNotFound)
		return nil, ErrNotFound
	}
	if err != nil {
		observability.Store().OnLoad(ctx, "redis", id, err)
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		observability.Store().OnLoad(ctx, "redis", id, err)
		return nil, err
	}
	observability.Store().OnLoad(ctx, "redis", id, nil)
	return &sess, nil
}

// Put stores a session, refreshing its TTL when one is configured.
func (s *RedisStore) Put(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidID
	}
	sess.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	err = s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err()
	observability.Store().OnSave(ctx, "redis", sess.ID, len(data), err)
	return err
}

// Delete removes a session. Unknown IDs return ErrNotFound.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	n, err := s.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all stored session IDs by scanning the key namespace.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
