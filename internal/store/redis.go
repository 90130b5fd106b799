package store

import (
	"context"

	"studyapp/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps each owner's preferences in a redis hash.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the server described by cfg.
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = config.DefaultRedisKeyPrefix
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: prefix,
	}
}

func (s *RedisStore) hashKey(owner string) string { return s.prefix + owner }

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("redis", err)
	}
	return nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, owner, key string) (string, bool, error) {
	val, err := s.client.HGet(ctx, s.hashKey(owner), key).Result()
	if err == redis.Nil {
		return "", false, nil
	} else if err != nil {
		return "", false, unavailable("redis", err)
	}
	return val, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, owner, key, value string) error {
	if err := s.client.HSet(ctx, s.hashKey(owner), key, value).Err(); err != nil {
		return unavailable("redis", err)
	}
	return nil
}

// SetMany implements Batcher. HSET with several fields is a single command.
func (s *RedisStore) SetMany(ctx context.Context, owner string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make([]interface{}, 0, 2*len(values))
	for k, v := range values {
		fields = append(fields, k, v)
	}
	if err := s.client.HSet(ctx, s.hashKey(owner), fields...).Err(); err != nil {
		return unavailable("redis", err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error { return s.client.Close() }
