// Package rediscache 基于 Redis 的缓存后端，可在多个进程间共享生成结果。
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "chainflow:cache:"

// Config Redis 缓存配置。
type Config struct {
	// Client 必填，可以是单机、哨兵或集群客户端
	Client redis.UniversalClient
	// KeyPrefix 键前缀，默认 "chainflow:cache:"
	KeyPrefix string
	// TTL 过期时间，0 表示不过期
	TTL time.Duration
}

// Cache 实现 cache.Cache。
type Cache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func New(config *Config) (*Cache, error) {
	if config == nil || config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Cache{client: config.Client, prefix: prefix, ttl: config.TTL}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s failed: %w", key, err)
	}
	return v, true, nil
}

func (c *Cache) Put(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s failed: %w", key, err)
	}
	return nil
}

func (c *Cache) GetType() string {
	return "Redis"
}
