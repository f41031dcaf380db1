package cache

import (
	"context"
	"sync"
	"time"

	"setting-center/app/valuetype"
)

const (
	// KeyPrefix 设置缓存键前缀
	KeyPrefix = "setting:"
	// DefaultTTL 默认缓存时间
	DefaultTTL = time.Hour
)

// Loader 缓存未命中时读取并转换设置值
type Loader func(ctx context.Context, key string) (valuetype.Value, error)

// SettingCache 按键的读穿透缓存，写入后由调用方失效
type SettingCache struct {
	store   Store
	ttl     time.Duration
	load    Loader
	metrics *Metrics

	// 失效代数，加载期间发生失效时丢弃加载结果
	mu    sync.Mutex
	epoch uint64
	gens  map[string]uint64
}

type generation struct {
	epoch, key uint64
}

// NewSettingCache 创建设置缓存，metrics 可为 nil
func NewSettingCache(store Store, ttl time.Duration, load Loader, metrics *Metrics) *SettingCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if metrics == nil {
		metrics, _ = NewMetrics(nil)
	}
	return &SettingCache{store: store, ttl: ttl, load: load, metrics: metrics, gens: map[string]uint64{}}
}

// Get 命中直接返回，未命中时加载并写入缓存，加载失败不缓存
func (c *SettingCache) Get(ctx context.Context, key string) (valuetype.Value, error) {
	if v, ok := c.Peek(key); ok {
		return v, nil
	}
	c.metrics.misses.Inc()

	gen := c.generation(key)
	v, err := c.load(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generationLocked(key) == gen {
		c.store.Set(KeyPrefix+key, v, c.ttl)
	}
	c.mu.Unlock()
	return v, nil
}

func (c *SettingCache) generation(key string) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generationLocked(key)
}

func (c *SettingCache) generationLocked(key string) generation {
	return generation{epoch: c.epoch, key: c.gens[key]}
}

// Peek 只读缓存，不触发加载
func (c *SettingCache) Peek(key string) (valuetype.Value, bool) {
	raw, ok := c.store.Get(KeyPrefix + key)
	if !ok {
		return nil, false
	}
	c.metrics.hits.Inc()
	// nil 值也会被缓存
	v, _ := raw.(valuetype.Value)
	return v, true
}

// Invalidate 删除单个键
func (c *SettingCache) Invalidate(key string) {
	c.mu.Lock()
	c.gens[key]++
	c.store.Delete(KeyPrefix + key)
	c.mu.Unlock()
	c.metrics.invalidations.Inc()
}

// Flush 清空全部缓存
func (c *SettingCache) Flush() {
	c.mu.Lock()
	c.epoch++
	c.gens = map[string]uint64{}
	c.store.Flush()
	c.mu.Unlock()
	c.metrics.flushes.Inc()
}
