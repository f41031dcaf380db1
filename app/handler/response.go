package handler

import (
	"net/http"

	"setting-center/app/apperr"
	"setting-center/app/auth"

	"github.com/gin-gonic/gin"
)

// OperatorKey 上下文中保存操作人的键
const OperatorKey = "operator"

// ApiResponse 统一的API响应格式
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"` // 错误码，成功时为空
	Data    any    `json:"data"`
}

// Success 写入成功响应
func Success(c *gin.Context, status int, data any, message string) {
	if message == "" {
		message = "success"
	}
	c.JSON(status, ApiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail 按错误类型写入失败响应，非业务错误统一返回 500
func Fail(c *gin.Context, err error) {
	FailWithData(c, err, nil)
}

// FailWithData 失败响应附带部分结果，错误自身携带的数据优先
func FailWithData(c *gin.Context, err error, data any) {
	if e, ok := apperr.As(err); ok {
		if e.Data != nil {
			data = e.Data
		}
		c.JSON(e.Status(), ApiResponse{
			Success: false,
			Message: e.Message,
			Code:    e.Code(),
			Data:    data,
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ApiResponse{
		Success: false,
		Message: "服务器内部错误",
		Code:    "internal_error",
		Data:    data,
	})
}

// operator 取出当前操作人，未登录时返回 nil
func operator(c *gin.Context) auth.Operator {
	v, ok := c.Get(OperatorKey)
	if !ok {
		return nil
	}
	op, ok := v.(auth.Operator)
	if !ok {
		return nil
	}
	return op
}
