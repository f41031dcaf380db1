package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"setting-center/app/auth"
	"setting-center/app/config"
	"setting-center/app/handler"
	"setting-center/app/model"
	"setting-center/app/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	hash, err := auth.HashPassword("pa55word")
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{Username: "admin", Password: hash, IsActive: true, IsAdmin: true}).Error)
	require.NoError(t, db.Create(&model.User{Username: "gone", Password: hash}).Error)

	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "secret", ExpireTime: 24})
	h := handler.NewAuthHandler(db, jwtService)
	r := gin.New()
	r.POST("/login", h.Login)

	login := func(username, password string) (int, envelope) {
		body, _ := json.Marshal(gin.H{"username": username, "password": password})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return w.Code, env
	}

	code, env := login("admin", "pa55word")
	require.Equal(t, http.StatusOK, code)
	var resp handler.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	claims, err := jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.NotNil(t, resp.User.LastLogin)

	code, env = login("admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "用户名或密码错误", env.Message)

	code, env = login("gone", "pa55word")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "用户账号已被禁用", env.Message)

	code, _ = login("", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
