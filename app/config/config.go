package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`     // gin 运行模式: debug, release, test
	Username string `mapstructure:"username"` // 初始管理员
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`      // json 或 text
	Output     string `mapstructure:"output"`      // stdout 或 file
	MaxSize    int    `mapstructure:"max_size"`    // 兆字节
	MaxBackups int    `mapstructure:"max_backups"` // 备份数量
	MaxAge     int    `mapstructure:"max_age"`     // 天数
	Compress   bool   `mapstructure:"compress"`    // 是否压缩旧文件
	Dir        string `mapstructure:"dir"`         // 日志目录
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`      // JWT 密钥
	ExpireTime int    `mapstructure:"expire_time"` // 过期时间（小时）
	Issuer     string `mapstructure:"issuer"`      // 签发者
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // sqlite 文件路径或 DSN
}

// CacheConfig 设置缓存配置
type CacheConfig struct {
	Driver    string `mapstructure:"driver"`     // memory(go-cache) 或 ttl(ttlcache)
	TTL       int    `mapstructure:"ttl"`        // 秒
	Cleanup   int    `mapstructure:"cleanup"`    // 过期清理间隔（秒），仅 memory
	FlushCron string `mapstructure:"flush_cron"` // 定时清空缓存，为空则不启用
}

// UploadConfig 设置资源上传配置
type UploadConfig struct {
	Driver  string   `mapstructure:"driver"`   // local 或 s3
	Dir     string   `mapstructure:"dir"`      // local 存储根目录
	BaseURL string   `mapstructure:"base_url"` // local 文件访问前缀
	MaxSize int64    `mapstructure:"max_size"` // 字节
	S3      S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"` // 兼容 S3 的自建服务
	Prefix    string `mapstructure:"prefix"`
	PublicURL string `mapstructure:"public_url"`
}

// SeedConfig 初始设置配置
type SeedConfig struct {
	File  string `mapstructure:"file"`  // 额外的 YAML 初始设置文件
	Watch bool   `mapstructure:"watch"` // 文件变更后重新执行初始化
}

func Load() *Config {
	setDefaults()

	// 读取配置
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("未找到配置文件，使用默认配置")
		} else {
			log.Fatalf("读取配置文件出错: %v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("无法解码配置: %v", err)
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		log.Fatalf("配置验证失败: %v", err)
	}

	return &config
}

// setDefaults 设置默认配置
func setDefaults() {
	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.mode", "release")

	// 日志默认配置
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("log.dir", "data/logs")

	// JWT默认配置
	viper.SetDefault("jwt.secret", "your-secret-key-change-in-production")
	viper.SetDefault("jwt.expire_time", 24) // 24小时
	viper.SetDefault("jwt.issuer", "setting-center")

	viper.SetDefault("database.dsn", "data/setting-center.db")

	viper.SetDefault("cache.driver", "memory")
	viper.SetDefault("cache.ttl", 3600)
	viper.SetDefault("cache.cleanup", 600)
	viper.SetDefault("cache.flush_cron", "")

	viper.SetDefault("upload.driver", "local")
	viper.SetDefault("upload.dir", "data/uploads")
	viper.SetDefault("upload.base_url", "/uploads")
	viper.SetDefault("upload.max_size", 5*1024*1024)

	viper.SetDefault("seed.file", "")
	viper.SetDefault("seed.watch", false)
}

// validateConfig 验证配置的有效性
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("服务器端口未设置")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT密钥未设置")
	}
	switch config.Cache.Driver {
	case "memory", "ttl":
	default:
		return fmt.Errorf("不支持的缓存驱动: %s", config.Cache.Driver)
	}
	if config.Cache.TTL <= 0 {
		return fmt.Errorf("缓存过期时间必须大于0")
	}
	switch config.Upload.Driver {
	case "local":
	case "s3":
		if config.Upload.S3.Bucket == "" {
			return fmt.Errorf("S3 存储桶未设置")
		}
	default:
		return fmt.Errorf("不支持的上传驱动: %s", config.Upload.Driver)
	}
	if config.Upload.MaxSize <= 0 {
		return fmt.Errorf("上传文件大小限制必须大于0")
	}
	return nil
}
