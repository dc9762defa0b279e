package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend names a cache implementation.
type Backend string

const (
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendNone  Backend = "none"
)

var ErrUnsupportedBackend = errors.New("unsupported cache backend")

// Config selects and configures a backend.
type Config struct {
	Backend  Backend
	Dir      string
	RedisURL string
	TTL      time.Duration
}

// Cache opens per-resource stores on one backend.
type Cache struct {
	cfg   Config
	redis *redis.Client
}

// Open validates cfg and connects to Redis when needed.
func Open(cfg Config) (*Cache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	c := &Cache{cfg: cfg}
	switch cfg.Backend {
	case "", BackendFile:
		c.cfg.Backend = BackendFile
		if c.cfg.Dir == "" {
			dir, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			c.cfg.Dir = dir
		}
	case BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		c.redis = redis.NewClient(opts)
	case BackendNone:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
	return c, nil
}

// Store returns the store for one resource listing.
func (c *Cache) Store(key, rootURL string) Store {
	switch c.cfg.Backend {
	case BackendRedis:
		return NewRedisStore(c.redis, key, rootURL, c.cfg.TTL)
	case BackendNone:
		return noopStore{}
	default:
		return NewFileStoreWithTTL(c.cfg.Dir, key, rootURL, c.cfg.TTL)
	}
}

// ClearAll removes every entry on the backend.
func (c *Cache) ClearAll(ctx context.Context) error {
	switch c.cfg.Backend {
	case BackendRedis:
		return ClearAllRedis(ctx, c.redis)
	case BackendNone:
		return nil
	default:
		ClearAll(c.cfg.Dir)
		return nil
	}
}

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

type noopStore struct{}

func (noopStore) Get(context.Context, any) bool { return false }
func (noopStore) Put(context.Context, any) {}
func (noopStore) Clear(context.Context) {}

// Location describes where entries live: a directory for the file backend,
// the Redis URL otherwise.
func (c *Cache) Location() string {
	switch c.cfg.Backend {
	case BackendRedis:
		return c.cfg.RedisURL
	case BackendNone:
		return ""
	default:
		return c.cfg.Dir
	}
}

func (c *Cache) Backend() Backend { return c.cfg.Backend }
