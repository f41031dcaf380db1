package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"setting-center/app/auth"
	"setting-center/app/cache"
	"setting-center/app/config"
	"setting-center/app/filewatcher"
	"setting-center/app/handler"
	"setting-center/app/logger"
	"setting-center/app/middleware"
	"setting-center/app/repository"
	"setting-center/app/seed"
	"setting-center/app/service"
	"setting-center/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Server 表示 HTTP 服务器
type Server struct {
	Config  *config.Config
	Logger  *logger.Logger
	Setting *service.SettingService

	db          *gorm.DB
	gin         *gin.Engine
	http        *http.Server
	registry    *prometheus.Registry
	store       cache.Store
	jwtService  *auth.JWTService
	flusher     *service.CacheFlushService
	seedWatcher *filewatcher.SeedWatcher
}

// New 创建一个新的 Server 实例
func New(cfg *config.Config, log *logger.Logger, db *gorm.DB) (*Server, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := cache.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("注册缓存指标失败: %w", err)
	}

	files, err := storage.New(context.Background(), cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("初始化上传存储失败: %w", err)
	}

	svc := service.NewSettingService(repository.NewSettingRepository(db), log, service.Options{
		CacheStore:    store,
		CacheTTL:      time.Duration(cfg.Cache.TTL) * time.Second,
		Metrics:       metrics,
		Storage:       files,
		MaxUploadSize: cfg.Upload.MaxSize,
	})

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		Config:     cfg,
		Logger:     log,
		Setting:    svc,
		db:         db,
		gin:        router,
		registry:   registry,
		store:      store,
		jwtService: auth.NewJWTService(cfg.JWT),
		flusher:    service.NewCacheFlushService(svc.Cache(), cfg.Cache.FlushCron, log),
		http: &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: router,
		},
	}

	if cfg.Seed.File != "" && cfg.Seed.Watch {
		s.seedWatcher = filewatcher.NewSeedWatcher(cfg.Seed.File, s.reloadSeedFile, log)
	}

	// 设置路由
	s.setupRoutes()

	return s, nil
}

// Handler 返回 HTTP 处理器
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Prepare 写入初始设置并启动后台任务
func (s *Server) Prepare(ctx context.Context) error {
	if _, err := s.Setting.Seed(ctx, nil, seed.Builtins()); err != nil {
		return fmt.Errorf("写入内置设置失败: %w", err)
	}
	if s.Config.Seed.File != "" {
		if err := s.reloadSeedFile(s.Config.Seed.File); err != nil {
			return err
		}
	}

	if err := s.flusher.Start(); err != nil {
		return err
	}
	if s.seedWatcher != nil {
		if err := s.seedWatcher.Start(); err != nil {
			s.flusher.Stop()
			return err
		}
	}
	return nil
}

func (s *Server) reloadSeedFile(path string) error {
	entries, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	n, err := s.Setting.Seed(context.Background(), nil, entries)
	if err != nil {
		return fmt.Errorf("写入初始设置失败: %w", err)
	}
	s.Logger.Infof("初始设置文件 %s 处理完成，新增 %d 项", path, n)
	return nil
}

// Start 启动服务器
func (s *Server) Start() error {
	if err := s.Prepare(context.Background()); err != nil {
		return err
	}

	s.Logger.Infof("在端口 %s 启动服务器", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown 停止后台任务并关闭服务器
func (s *Server) Shutdown(ctx context.Context) error {
	s.flusher.Stop()
	if s.seedWatcher != nil {
		if err := s.seedWatcher.Stop(); err != nil {
			s.Logger.Errorf("停止初始设置文件监控失败: %v", err)
		}
	}
	if closer, ok := s.store.(interface{ Close() }); ok {
		closer.Close()
	}

	err := s.http.Shutdown(ctx)

	// 关闭数据库连接
	if sqlDB, dbErr := s.db.DB(); dbErr == nil {
		if dbErr := sqlDB.Close(); dbErr != nil {
			s.Logger.Errorf("关闭数据库连接失败: %v", dbErr)
		}
	}
	return err
}

// setupRoutes 设置API路由
func (s *Server) setupRoutes() {
	authHandler := handler.NewAuthHandler(s.db, s.jwtService)
	settingHandler := handler.NewSettingHandler(s.Setting)

	s.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	if s.Config.Upload.Driver == "" || s.Config.Upload.Driver == "local" {
		s.gin.Static(s.Config.Upload.BaseURL, s.Config.Upload.Dir)
	}

	// API路由组
	api := s.gin.Group("/api")

	// 认证相关路由（不需要JWT验证）
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.RefreshToken)
	}

	// 需要JWT验证的路由
	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(s.jwtService, s.db))
	{
		protected.GET("/me", authHandler.Me)
		settingHandler.Register(protected)
	}
}
