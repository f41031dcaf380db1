package service

import (
	"context"
	"errors"
	"time"

	"setting-center/app/apperr"
	"setting-center/app/auth"
	"setting-center/app/cache"
	"setting-center/app/logger"
	"setting-center/app/model"
	"setting-center/app/repository"
	"setting-center/app/storage"
	"setting-center/app/valuetype"
)

// 常用提示信息
const (
	msgNotFound    = "设置不存在"
	msgNotEditable = "该设置不可编辑"
	msgMissingKey  = "缺少设置键名"
)

// DefaultMaxUploadSize 上传文件大小上限
const DefaultMaxUploadSize int64 = 5 * 1024 * 1024

// Options 设置服务的可选依赖
type Options struct {
	CacheStore    cache.Store
	CacheTTL      time.Duration
	Metrics       *cache.Metrics
	Storage       storage.Storage
	MaxUploadSize int64
}

// SettingService 系统设置服务
type SettingService struct {
	repo    repository.SettingRepository
	cache   *cache.SettingCache
	files   storage.Storage
	maxSize int64
	logger  *logger.Logger
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository, log *logger.Logger, opts Options) *SettingService {
	if log == nil {
		log = logger.Nop()
	}
	store := opts.CacheStore
	if store == nil {
		store = cache.NewMemoryStore(cache.DefaultTTL, 10*time.Minute)
	}
	maxSize := opts.MaxUploadSize
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	s := &SettingService{
		repo:    repo,
		files:   opts.Storage,
		maxSize: maxSize,
		logger:  log,
	}
	s.cache = cache.NewSettingCache(store, opts.CacheTTL, s.load, opts.Metrics)
	return s
}

// Cache 返回设置缓存
func (s *SettingService) Cache() *cache.SettingCache {
	return s.cache
}

// load 缓存未命中时从存储读取启用的设置
func (s *SettingService) load(ctx context.Context, key string) (valuetype.Value, error) {
	setting, err := s.repo.FindByKey(ctx, key, true)
	if err != nil {
		return nil, err
	}
	return setting.TypedValue(), nil
}

// ensureOperator 校验操作人已登录、已启用且具有管理权限
func ensureOperator(op auth.Operator) error {
	if op == nil {
		return apperr.Authentication("需要登录访问")
	}
	if !op.Active() {
		return apperr.Permission("用户账号已被禁用")
	}
	if !op.Privileged() {
		return apperr.Permission("需要管理员权限")
	}
	return nil
}

// findByKey 包括未启用的设置
func (s *SettingService) findByKey(ctx context.Context, key string, activeOnly bool) (*model.Setting, error) {
	setting, err := s.repo.FindByKey(ctx, key, activeOnly)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	return setting, err
}

func (s *SettingService) findByID(ctx context.Context, id string) (*model.Setting, error) {
	setting, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	return setting, err
}
