package outputcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached responses between replicas. Each tag is a redis
// set holding the keys stored under it.
type RedisStore struct {
	rc     *redis.Client
	prefix string
}

func NewRedisStore(rc *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "outputcache"
	}
	return &RedisStore{rc: rc, prefix: prefix}
}

func (s *RedisStore) entryKey(key string) string { return s.prefix + ":entry:" + key }

func (s *RedisStore) tagKey(tag string) string { return s.prefix + ":tag:" + tag }

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	raw, err := s.rc.Get(ctx, s.entryKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration, tags []string) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	entryKey := s.entryKey(key)
	_, err = s.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryKey, raw, ttl)
		for _, tag := range tags {
			tagKey := s.tagKey(tag)
			pipe.SAdd(ctx, tagKey, entryKey)
			// A tag set outlives every entry it lists.
			pipe.ExpireGT(ctx, tagKey, ttl)
			pipe.ExpireNX(ctx, tagKey, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) EvictTag(ctx context.Context, tag string) error {
	tagKey := s.tagKey(tag)
	keys, err := s.rc.SMembers(ctx, tagKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read cache tag: %w", err)
	}
	if err := s.rc.Del(ctx, append(keys, tagKey)...).Err(); err != nil {
		return fmt.Errorf("failed to evict cache tag: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rc.Ping(ctx).Err()
}
