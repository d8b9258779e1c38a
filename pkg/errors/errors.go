package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 是各层返回给 HTTP 边界的统一错误类型。
// Code 标识业务错误，Message 可以直接展示给调用方，Err 保存内部原因，只写日志。
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 让 errors.Is / errors.As 能看到内部原因
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配，动态消息（如 "Insufficient stock for Ladoo"）也能匹配到哨兵错误
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus 取错误码的前三位作为 HTTP 状态码
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// New 创建 AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 创建带格式化消息的 AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 把系统错误（数据库、Redis、网络）包装成内部错误
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WithCode 用指定错误码包装 err
func WithCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码
// =========================================
// code / 100 即 HTTP 状态码：
// - 400xx：参数校验、业务规则
// - 404xx：资源不存在
// - 409xx：商品目录冲突
// - 500xx：服务端错误
//
// 哨兵错误定义在各自的领域包里（order.ErrOrderNotFound、sweet.ErrSweetNotFound ...）

const (
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	ErrCodeSweetNotFound = 40401
	ErrCodeOrderNotFound = 40402

	ErrCodeInvalidParams     = 40000
	ErrCodeInvalidStatus     = 40001
	ErrCodeInsufficientStock = 40002
	ErrCodeTokenConflict     = 40003
	ErrCodeBindError         = 40004

	ErrCodeConflict        = 40900
	ErrCodeOrderIDConflict = 40902
)

// GetAppError 从 err 中取出 AppError，其他错误一律包装成内部错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}
