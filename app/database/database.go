package database

import (
	"os"
	"path/filepath"
	"strings"

	"setting-center/app/config"
	"setting-center/app/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 全局数据库实例
var DB *gorm.DB

// Init 初始化数据库连接、迁移表结构并准备管理员账户
func Init(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	dsn := cfg.Database.DSN
	if !strings.HasPrefix(dsn, "file:") {
		// 确保数据库文件目录存在
		if err := ensureDir(filepath.Dir(dsn)); err != nil {
			log.Errorf("创建数据库目录失败: %v", err)
			return nil, err
		}
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if cfg.Log.Level == "debug" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		log.Errorf("连接数据库失败: %v", err)
		return nil, err
	}

	DB = db
	log.Infof("数据库连接成功: %s", dsn)

	if err := AutoMigrate(db); err != nil {
		log.Errorf("迁移表结构失败: %v", err)
		return nil, err
	}

	if err := InitAdminUser(db, cfg, log); err != nil {
		log.Errorf("初始化管理员账户失败: %v", err)
		return nil, err
	}

	return db, nil
}

// Close 关闭数据库连接
func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// ensureDir 确保目录存在
func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
