package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"setting-center/app/config"
	"setting-center/app/database"
	"setting-center/app/logger"
	"setting-center/app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `settings:
  - key: feature.beta
    name: 测试功能
    value_type: boolean
    category: feature
    value: "true"
    default_value: "false"
`

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	seedFile := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte(seedYAML), 0o644))

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test", Username: "admin", Password: "admin123"},
		JWT:    config.JWTConfig{Secret: "secret", ExpireTime: 1, Issuer: "setting-center"},
		Cache:  config.CacheConfig{Driver: "memory", TTL: 60, Cleanup: 60, FlushCron: "@every 1h"},
		Upload: config.UploadConfig{Driver: "local", Dir: filepath.Join(dir, "uploads"), BaseURL: "/uploads", MaxSize: 1024},
		Seed:   config.SeedConfig{File: seedFile},
	}

	db := testutil.NewDB(t)
	log := logger.Nop()
	require.NoError(t, database.InitAdminUser(db, cfg, log))

	s, err := New(cfg, log, db)
	require.NoError(t, err)
	require.NoError(t, s.Prepare(context.Background()))
	t.Cleanup(s.flusher.Stop)
	return s
}

func serve(s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServerEndToEnd(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/api/settings/dictionary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(s, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	w = serve(s, http.MethodGet, "/api/settings/dictionary", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var dict struct {
		Settings map[string]any `json:"settings"`
		Count    int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dict))
	assert.Equal(t, 6, dict.Count)
	assert.Equal(t, true, dict.Settings["feature.beta"])
	assert.Equal(t, "Setting Center", dict.Settings["system.site_name"])

	w = serve(s, http.MethodPut, "/api/settings/value/ui.pagination_size", login.Token, map[string]any{"value": 50})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(50), s.Setting.GetInt(context.Background(), "ui.pagination_size", 0))
	assert.Equal(t, int64(50), s.Setting.GetInt(context.Background(), "ui.pagination_size", 0))

	w = serve(s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "setting_center_cache_hits_total 1")
	assert.Contains(t, w.Body.String(), "setting_center_cache_invalidations_total")
}

func TestPrepareIsRepeatable(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Prepare(context.Background()))

	settings, err := s.Setting.Dictionary(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, 6)
}

func TestNewRejectsBadCacheDriver(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Driver: "redis", TTL: 1}}
	_, err := New(cfg, logger.Nop(), testutil.NewDB(t))
	assert.Error(t, err)
}
