package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"setting-center/app/config"
	"setting-center/app/valuetype"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls  int
	values map[string]valuetype.Value
	err    error
}

func (l *countingLoader) load(_ context.Context, key string) (valuetype.Value, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.values[key], nil
}

func stores(t *testing.T) map[string]Store {
	ttl := NewTTLStore(time.Minute)
	t.Cleanup(ttl.Close)
	return map[string]Store{
		"memory": NewMemoryStore(time.Minute, time.Minute),
		"ttl":    ttl,
	}
}

func TestReadThrough(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			loader := &countingLoader{values: map[string]valuetype.Value{"ui.size": valuetype.IntValue(20)}}
			c := NewSettingCache(store, time.Minute, loader.load, nil)

			v, err := c.Get(context.Background(), "ui.size")
			require.NoError(t, err)
			assert.Equal(t, valuetype.IntValue(20), v)

			v, err = c.Get(context.Background(), "ui.size")
			require.NoError(t, err)
			assert.Equal(t, valuetype.IntValue(20), v)
			assert.Equal(t, 1, loader.calls)

			loader.values["ui.size"] = valuetype.IntValue(50)
			c.Invalidate("ui.size")
			v, err = c.Get(context.Background(), "ui.size")
			require.NoError(t, err)
			assert.Equal(t, valuetype.IntValue(50), v)
			assert.Equal(t, 2, loader.calls)
		})
	}
}

func TestLoadErrorNotCached(t *testing.T) {
	loader := &countingLoader{err: errors.New("db down")}
	c := NewSettingCache(NewMemoryStore(time.Minute, time.Minute), 0, loader.load, nil)

	_, err := c.Get(context.Background(), "system.site_name")
	assert.Error(t, err)
	_, ok := c.Peek("system.site_name")
	assert.False(t, ok)

	loader.err = nil
	loader.values = map[string]valuetype.Value{"system.site_name": valuetype.TextValue("站点")}
	v, err := c.Get(context.Background(), "system.site_name")
	require.NoError(t, err)
	assert.Equal(t, valuetype.TextValue("站点"), v)
}

func TestFlush(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			loader := &countingLoader{values: map[string]valuetype.Value{
				"a": valuetype.BoolValue(true),
				"b": valuetype.FloatValue(1.5),
			}}
			c := NewSettingCache(store, time.Minute, loader.load, nil)
			ctx := context.Background()
			_, _ = c.Get(ctx, "a")
			_, _ = c.Get(ctx, "b")

			c.Flush()
			_, ok := c.Peek("a")
			assert.False(t, ok)
			_, ok = c.Peek("b")
			assert.False(t, ok)
		})
	}
}

func TestNilValueCached(t *testing.T) {
	loader := &countingLoader{values: map[string]valuetype.Value{}}
	c := NewSettingCache(NewMemoryStore(time.Minute, time.Minute), time.Minute, loader.load, nil)

	v, err := c.Get(context.Background(), "system.site_logo")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, ok := c.Peek("system.site_logo")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, 1, loader.calls)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	loader := &countingLoader{values: map[string]valuetype.Value{"k": valuetype.IntValue(1)}}
	c := NewSettingCache(NewMemoryStore(time.Minute, time.Minute), time.Minute, loader.load, m)
	ctx := context.Background()
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "k")
	c.Invalidate("k")
	c.Flush()

	assert.Equal(t, 1.0, promtest.ToFloat64(m.hits))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.misses))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.invalidations))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.flushes))

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(config.CacheConfig{Driver: "memory", TTL: 60})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore(config.CacheConfig{Driver: "ttl", TTL: 60})
	require.NoError(t, err)
	require.IsType(t, &TTLStore{}, s)
	s.(*TTLStore).Close()

	_, err = NewStore(config.CacheConfig{Driver: "redis"})
	assert.Error(t, err)
}

func TestInvalidateDuringLoadDropsStaleValue(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, mode := range []string{"invalidate", "flush"} {
				t.Run(mode, func(t *testing.T) {
					var (
						mu     sync.Mutex
						stored int64 = 1
						loaded       = make(chan struct{}, 1)
						resume       = make(chan struct{})
					)
					blocking := true
					load := func(context.Context, string) (valuetype.Value, error) {
						mu.Lock()
						v := valuetype.IntValue(stored)
						wait := blocking
						blocking = false
						mu.Unlock()
						if wait {
							loaded <- struct{}{}
							<-resume
						}
						return v, nil
					}
					c := NewSettingCache(store, time.Minute, load, nil)
					c.Flush()

					done := make(chan valuetype.Value)
					go func() {
						v, _ := c.Get(context.Background(), "k")
						done <- v
					}()
					<-loaded

					// 写入提交并失效后才放行旧的加载
					mu.Lock()
					stored = 2
					mu.Unlock()
					if mode == "flush" {
						c.Flush()
					} else {
						c.Invalidate("k")
					}
					close(resume)
					assert.Equal(t, valuetype.IntValue(1), <-done)

					v, err := c.Get(context.Background(), "k")
					require.NoError(t, err)
					assert.Equal(t, valuetype.IntValue(2), v)
				})
			}
		})
	}
}
