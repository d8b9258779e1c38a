// Package handler 把 HTTP 请求转换为应用层用例调用
package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
	"github.com/xiebiao/sweetshop/pkg/response"
)

// bindJSON 把请求体解码到 req；解码失败时直接返回 400 并返回 false。
// 空请求体等同于 {}，交给用例校验必填字段。
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		response.Error(c, apperrors.WithCode(err, apperrors.ErrCodeBindError, "Malformed request body"))
		return false
	}
	return true
}
