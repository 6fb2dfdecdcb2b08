package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ClientTTL is how long an idle client's settings survive in redis.
const ClientTTL = 90 * 24 * time.Hour

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore keeps each client's settings in one hash, refreshed on write.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) hashKey(namespace string) string {
	if s.prefix == "" {
		return "client:" + namespace
	}
	return s.prefix + ":client:" + namespace
}

func (s *redisStore) Get(ctx context.Context, namespace, key string) (string, error) {
	value, err := s.client.HGet(ctx, s.hashKey(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis hget %s", key)
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, namespace, key, value string) error {
	hashKey := s.hashKey(namespace)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, hashKey, key, value)
	pipe.Expire(ctx, hashKey, ClientTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "redis hset %s", key)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.HDel(ctx, s.hashKey(namespace), key).Err(); err != nil {
		return errors.Wrapf(err, "redis hdel %s", key)
	}
	return nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
