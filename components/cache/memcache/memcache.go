// Package memcache 进程内缓存后端。
package memcache

import (
	"context"
	"slices"
	"sync"
)

// Config 内存缓存配置。
type Config struct {
	// MaxEntries 最大条目数，超出时淘汰最早写入的条目；0 表示不限制
	MaxEntries int
}

// Cache 以互斥锁保护的 map 实现 cache.Cache 与 cache.ValueCache。
// 字节与值共用同一键空间和淘汰顺序；以字节读取值条目视为未命中，反之亦然。
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	max     int
}

type entry struct {
	raw   []byte
	value any
	isRaw bool
}

func New(config *Config) *Cache {
	c := &Cache{entries: make(map[string]entry)}
	if config != nil {
		c.max = config.MaxEntries
	}
	return c
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !e.isRaw {
		return nil, false, nil
	}
	return slices.Clone(e.raw), true, nil
}

func (c *Cache) Put(_ context.Context, key string, value []byte) error {
	c.put(key, entry{raw: slices.Clone(value), isRaw: true})
	return nil
}

// GetValue 返回写入时的值本身，调用方应将其视为只读。
func (c *Cache) GetValue(_ context.Context, key string) (any, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.isRaw {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *Cache) PutValue(_ context.Context, key string, value any) error {
	c.put(key, entry{value: value})
	return nil
}

func (c *Cache) put(key string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = e

	for c.max > 0 && len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len 返回当前条目数。
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) GetType() string {
	return "Memory"
}
