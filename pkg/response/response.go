package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应。
// 内部原因挂到 gin context 上供日志中间件记录，不会返回给客户端。
//
//	order, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError || appErr.Err != nil {
		_ = c.Error(appErr)
	}

	c.JSON(status, Response{
		Success: false,
		Message: appErr.Message,
	})
}

// ErrorWithCode 指定 HTTP 状态码的错误响应
func ErrorWithCode(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}
