package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"setting-center/app/apperr"
	"setting-center/app/repository"
	"setting-center/app/storage"
	"setting-center/app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func newUploadService(t *testing.T) (*SettingService, string) {
	root := t.TempDir()
	repo := repository.NewSettingRepository(testutil.NewDB(t))
	svc := NewSettingService(repo, nil, Options{
		Storage: storage.NewLocalStorage(root, "/uploads"),
	})
	return svc, root
}

func TestUploadAsset(t *testing.T) {
	svc, root := newUploadService(t)

	res, err := svc.UploadAsset(context.Background(), admin, UploadFile{
		Name:        "logo.png",
		Size:        int64(len(pngBytes)),
		ContentType: "image/png",
		Reader:      bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Path, "settings/"))
	assert.Equal(t, ".png", filepath.Ext(res.Path))
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(res.Path, "settings/"), ".png"), 32)
	assert.Equal(t, "/uploads/"+res.Path, res.URL)
	assert.Equal(t, "image/png", res.ContentType)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(res.Path)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestUploadAssetSniffsContentType(t *testing.T) {
	svc, root := newUploadService(t)

	res, err := svc.UploadAsset(context.Background(), admin, UploadFile{
		Name:   "logo",
		Size:   int64(len(pngBytes)),
		Reader: bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(res.Path)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestUploadAssetRejects(t *testing.T) {
	svc, _ := newUploadService(t)
	ctx := context.Background()

	_, err := svc.UploadAsset(ctx, admin, UploadFile{
		Name: "a.txt", Size: 4, ContentType: "text/plain", Reader: strings.NewReader("text"),
	})
	requireKind(t, err, apperr.KindValidation, "不支持的文件类型")

	_, err = svc.UploadAsset(ctx, admin, UploadFile{
		Name: "big.mp4", Size: 6 * 1024 * 1024, ContentType: "video/mp4", Reader: strings.NewReader("x"),
	})
	requireKind(t, err, apperr.KindValidation, "文件大小不能超过 5MB")

	_, err = svc.UploadAsset(ctx, admin, UploadFile{Name: "a.png", ContentType: "image/png"})
	requireKind(t, err, apperr.KindValidation, "无效的上传文件")

	_, err = svc.UploadAsset(ctx, nil, UploadFile{Name: "a.png", ContentType: "image/png", Reader: bytes.NewReader(pngBytes)})
	requireKind(t, err, apperr.KindAuthentication, "")
}
