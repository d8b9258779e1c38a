// Package router 组装 gin 引擎：中间件链、业务路由和运维端点
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/sweetshop/docs"
	"github.com/xiebiao/sweetshop/internal/infrastructure/config"
	"github.com/xiebiao/sweetshop/internal/interface/http/handler"
	"github.com/xiebiao/sweetshop/internal/interface/http/middleware"
	"github.com/xiebiao/sweetshop/pkg/metrics"
	"github.com/xiebiao/sweetshop/pkg/response"
)

// NewRouter 创建路由。
//
// 中间件顺序：Logger -> Recovery -> Tracing -> Metrics -> handler，
// 被恢复的 panic 仍会以 500 记入日志。
func NewRouter(
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	orderHandler *handler.OrderHandler,
	sweetHandler *handler.SweetHandler,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.Logger(log), middleware.Recovery(log))
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(m))
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, "pong", gin.H{"status": "healthy"})
	})

	// release 模式不暴露接口文档
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.Server.BasePath)
	{
		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/token/:token", orderHandler.GetOrderByToken)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}

		sweets := api.Group("/sweets")
		{
			sweets.GET("", sweetHandler.ListSweets)
			sweets.GET("/:id", sweetHandler.GetSweet)
			sweets.POST("", sweetHandler.AddSweet)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithCode(c, http.StatusNotFound, "Route not found")
	})

	return r
}
