package storage

import (
	"context"
	"fmt"
	"io"

	"setting-center/app/config"
)

// Storage 上传文件的存储后端
type Storage interface {
	// Save 写入文件并返回存储路径
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	// URL 存储路径对应的访问地址
	URL(path string) string
}

// New 根据上传配置创建存储后端
func New(ctx context.Context, cfg config.UploadConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Dir, cfg.BaseURL), nil
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("不支持的上传驱动: %s", cfg.Driver)
	}
}
