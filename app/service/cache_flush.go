package service

import (
	"fmt"
	"sync"

	"setting-center/app/cache"
	"setting-center/app/logger"

	"github.com/robfig/cron/v3"
)

// CacheFlushService 按 cron 表达式定时清空设置缓存
type CacheFlushService struct {
	cache  *cache.SettingCache
	logger *logger.Logger
	spec   string
	cron   *cron.Cron
	mu     sync.Mutex
}

// NewCacheFlushService spec 为空时不启用
func NewCacheFlushService(c *cache.SettingCache, spec string, log *logger.Logger) *CacheFlushService {
	return &CacheFlushService{cache: c, logger: log, spec: spec}
}

// Start 启动定时任务
func (s *CacheFlushService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == "" || s.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, s.flush); err != nil {
		return fmt.Errorf("无效的缓存清理表达式 %q: %w", s.spec, err)
	}
	c.Start()
	s.cron = c

	s.logger.Infof("设置缓存定时清理已启动: %s", s.spec)
	return nil
}

// Stop 停止定时任务并等待正在执行的任务完成
func (s *CacheFlushService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	s.logger.Info("设置缓存定时清理已停止")
}

func (s *CacheFlushService) flush() {
	s.cache.Flush()
	s.logger.Debugf("定时清空设置缓存")
}
