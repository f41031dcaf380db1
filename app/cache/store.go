package cache

import (
	"fmt"
	"time"

	"setting-center/app/config"

	"github.com/jellydator/ttlcache/v3"
	gocache "github.com/patrickmn/go-cache"
)

// Store 键值缓存后端
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Flush()
}

// NewStore 根据配置创建缓存后端
func NewStore(cfg config.CacheConfig) (Store, error) {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.Driver {
	case "", "memory":
		cleanup := time.Duration(cfg.Cleanup) * time.Second
		if cleanup <= 0 {
			cleanup = 10 * time.Minute
		}
		return NewMemoryStore(ttl, cleanup), nil
	case "ttl":
		return NewTTLStore(ttl), nil
	default:
		return nil, fmt.Errorf("不支持的缓存驱动: %s", cfg.Driver)
	}
}

// MemoryStore go-cache 后端
type MemoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore(ttl, cleanup time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(ttl, cleanup)}
}

func (m *MemoryStore) Get(key string) (any, bool) {
	return m.c.Get(key)
}

func (m *MemoryStore) Set(key string, value any, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}

func (m *MemoryStore) Delete(key string) {
	m.c.Delete(key)
}

func (m *MemoryStore) Flush() {
	m.c.Flush()
}

// TTLStore ttlcache 后端，命中不续期
type TTLStore struct {
	c *ttlcache.Cache[string, any]
}

func NewTTLStore(ttl time.Duration) *TTLStore {
	c := ttlcache.New(
		ttlcache.WithTTL[string, any](ttl),
		ttlcache.WithDisableTouchOnHit[string, any](),
	)
	go c.Start()
	return &TTLStore{c: c}
}

func (s *TTLStore) Get(key string) (any, bool) {
	item := s.c.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false
	}
	return item.Value(), true
}

func (s *TTLStore) Set(key string, value any, ttl time.Duration) {
	s.c.Set(key, value, ttl)
}

func (s *TTLStore) Delete(key string) {
	s.c.Delete(key)
}

func (s *TTLStore) Flush() {
	s.c.DeleteAll()
}

// Close 停止过期清理协程
func (s *TTLStore) Close() {
	s.c.Stop()
}
