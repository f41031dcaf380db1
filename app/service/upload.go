package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"setting-center/app/apperr"
	"setting-center/app/auth"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedMediaPrefixes = []string{"image/", "video/", "application/"}

// UploadAsset 上传设置相关的资源文件
func (s *SettingService) UploadAsset(ctx context.Context, op auth.Operator, file UploadFile) (*UploadResult, error) {
	if err := ensureOperator(op); err != nil {
		return nil, err
	}
	if file.Reader == nil {
		return nil, apperr.Validation("无效的上传文件")
	}
	if s.files == nil {
		return nil, fmt.Errorf("未配置上传存储")
	}

	body := file.Reader
	contentType := file.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		// 读取文件头识别实际类型
		head := make([]byte, 3072)
		n, err := io.ReadFull(file.Reader, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, fmt.Errorf("读取上传文件失败: %w", err)
		}
		head = head[:n]
		contentType = mimetype.Detect(head).String()
		body = io.MultiReader(bytes.NewReader(head), file.Reader)
	}

	if !hasAllowedPrefix(contentType) {
		return nil, apperr.Validation("不支持的文件类型")
	}
	if file.Size > s.maxSize {
		return nil, apperr.Validation(fmt.Sprintf("文件大小不能超过 %dMB", s.maxSize/(1024*1024)))
	}

	name := "settings/" + strings.ReplaceAll(uuid.NewString(), "-", "") + filepath.Ext(file.Name)
	path, err := s.files.Save(ctx, name, body, file.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("保存上传文件失败: %w", err)
	}

	s.logger.WithOperator(op.Identity()).Info("设置资源已上传",
		zap.String("path", path),
		zap.Int64("size", file.Size),
		zap.String("content_type", contentType))
	return &UploadResult{
		URL:         s.files.URL(path),
		Path:        path,
		Size:        file.Size,
		ContentType: contentType,
	}, nil
}

func hasAllowedPrefix(contentType string) bool {
	for _, prefix := range allowedMediaPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
