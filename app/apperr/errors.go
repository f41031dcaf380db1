// Package apperr 定义设置服务对外暴露的错误分类。
//
// 每类错误都有固定的机器码与 HTTP 状态，处理器据此统一输出错误响应。
package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误分类
type Kind int

const (
	KindAuthentication Kind = iota + 1
	KindPermission
	KindNotFound
	KindValidation
	KindBusiness
)

type kindInfo struct {
	code    string
	status  int
	message string
}

var kindTable = map[Kind]kindInfo{
	KindAuthentication: {"authentication_failed", http.StatusUnauthorized, "未认证或认证已失效"},
	KindPermission:     {"permission_denied", http.StatusForbidden, "权限不足"},
	KindNotFound:       {"not_found", http.StatusNotFound, "请求的资源不存在"},
	KindValidation:     {"validation_error", http.StatusBadRequest, "参数校验失败"},
	KindBusiness:       {"business_error", http.StatusBadRequest, "业务处理失败"},
}

// String 返回机器码
func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.code
	}
	return "error"
}

// Error 带分类的业务错误
type Error struct {
	Kind    Kind
	Message string
	Data    any
}

func (e *Error) Error() string {
	return e.Message
}

// Code 稳定的机器码
func (e *Error) Code() string {
	return e.Kind.String()
}

// Status 对应的 HTTP 状态码
func (e *Error) Status() int {
	if info, ok := kindTable[e.Kind]; ok {
		return info.status
	}
	return http.StatusBadRequest
}

// WithData 附加响应数据
func (e *Error) WithData(data any) *Error {
	e.Data = data
	return e
}

// New 创建指定分类的错误，message 为空时使用分类的默认提示
func New(kind Kind, message string) *Error {
	if message == "" {
		message = kindTable[kind].message
	}
	return &Error{Kind: kind, Message: message}
}

func Authentication(message string) *Error { return New(KindAuthentication, message) }
func Permission(message string) *Error     { return New(KindPermission, message) }
func NotFound(message string) *Error       { return New(KindNotFound, message) }
func Validation(message string) *Error     { return New(KindValidation, message) }
func Business(message string) *Error       { return New(KindBusiness, message) }

// As 从错误链中取出 *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind 判断错误链中是否包含指定分类
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
