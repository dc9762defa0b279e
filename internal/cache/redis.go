package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "rapidpro:cache:"

// RedisStore keeps entries in Redis so several machines can share them.
// Expiry is enforced by Redis as well as by the entry timestamp.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, key, rootURL string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("%s%s:%s", redisPrefix, sanitizeKey(key), rootHash(rootURL)),
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, dst any) bool {
	if disabled() {
		return false
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return false
	}
	return decodeEntry(data, s.ttl, dst)
}

func (s *RedisStore) Put(ctx context.Context, items any) {
	if disabled() {
		return
	}
	data, err := encodeEntry(items)
	if err != nil {
		return
	}
	_ = s.client.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context) {
	_ = s.client.Del(ctx, s.key).Err()
}

// ClearAllRedis deletes every cache key written by this program.
func ClearAllRedis(ctx context.Context, client *redis.Client) error {
	iter := client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
