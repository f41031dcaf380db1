package handler

import (
	"net/http"
	"strings"
	"time"

	"setting-center/app/apperr"
	"setting-center/app/auth"
	"setting-center/app/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	db         *gorm.DB
	jwtService *auth.JWTService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(db *gorm.DB, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{db: db, jwtService: jwtService}
}

// LoginRequest 登录请求结构
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应结构
type LoginResponse struct {
	Token    string      `json:"token"`
	User     *model.User `json:"user"`
	ExpireAt int64       `json:"expire_at"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, apperr.Validation("请求参数错误: "+err.Error()))
		return
	}

	var user model.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		Fail(c, apperr.Authentication("用户名或密码错误"))
		return
	}
	if !auth.VerifyPassword(req.Password, user.Password) {
		Fail(c, apperr.Authentication("用户名或密码错误"))
		return
	}
	if !user.IsActive {
		Fail(c, apperr.Permission("用户账号已被禁用"))
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		Fail(c, err)
		return
	}

	now := time.Now()
	user.LastLogin = &now
	h.db.Model(&user).Update("last_login", now)

	Success(c, http.StatusOK, LoginResponse{
		Token:    token,
		User:     &user,
		ExpireAt: h.jwtService.ExpireAt().Unix(),
	}, "登录成功")
}

// RefreshToken 刷新令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		Fail(c, apperr.Authentication("Authorization header is required"))
		return
	}

	newToken, err := h.jwtService.RefreshToken(token)
	if err != nil {
		Fail(c, apperr.Authentication("刷新令牌失败: "+err.Error()))
		return
	}

	Success(c, http.StatusOK, gin.H{
		"token":     newToken,
		"expire_at": h.jwtService.ExpireAt().Unix(),
	}, "刷新成功")
}

// Me 获取当前用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := operator(c).(*model.User)
	if !ok || user == nil {
		Fail(c, apperr.Authentication("未认证"))
		return
	}
	Success(c, http.StatusOK, user, "")
}
