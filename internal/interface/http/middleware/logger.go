package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/sweetshop/pkg/tracing"
)

const (
	// RequestIDHeader 请求 id 的请求头和响应头
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey 请求 id 在 gin context 中的键
	RequestIDKey = "request_id"

	slowRequest = 3 * time.Second
)

// Logger 每个请求记录一行日志。请求 id 取自 X-Request-ID，没有则生成，并写回响应头。
// 5xx 记 error，4xx 记 warn，同时带上 handler 通过 c.Error 附加的错误。
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}

		if latency > slowRequest {
			log.Warn("slow request",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("latency", latency))
		}
	}
}

// GetRequestID 返回 Logger 设置的请求 id，没有则返回空串
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
