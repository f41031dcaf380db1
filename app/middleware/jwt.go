package middleware

import (
	"strings"

	"setting-center/app/apperr"
	"setting-center/app/auth"
	"setting-center/app/handler"
	"setting-center/app/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// JWTAuth JWT认证中间件，校验令牌并加载操作人
func JWTAuth(jwtService *auth.JWTService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, "需要登录访问")
			return
		}

		// 检查Bearer前缀
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			abort(c, "Invalid token: "+err.Error())
			return
		}

		var user model.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			abort(c, "用户不存在")
			return
		}
		if !user.IsActive {
			handler.Fail(c, apperr.Permission("用户账号已被禁用"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set(handler.OperatorKey, &user)
		c.Next()
	}
}

func abort(c *gin.Context, msg string) {
	handler.Fail(c, apperr.Authentication(msg))
	c.Abort()
}
