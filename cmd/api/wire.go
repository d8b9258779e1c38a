//go:build wireinject
// +build wireinject

// Wire 注入器。修改 provider 集合后执行 `wire gen ./cmd/api` 重新生成 wire_gen.go。

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	apporder "github.com/xiebiao/sweetshop/internal/application/order"
	appsweet "github.com/xiebiao/sweetshop/internal/application/sweet"
	"github.com/xiebiao/sweetshop/internal/domain/sweet"
	"github.com/xiebiao/sweetshop/internal/infrastructure/config"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/sweetshop/internal/interface/http/handler"
	"github.com/xiebiao/sweetshop/internal/interface/http/router"
)

// infrastructureSet 建立数据库、Redis 连接并创建可观测性组件
var infrastructureSet = wire.NewSet(
	provideDB,
	provideOrderCache,
	provideRegistry,
	provideMetrics,
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
)

var repositorySet = wire.NewSet(
	mysql.NewSweetRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
)

var domainSet = wire.NewSet(
	sweet.NewService,
	sweet.NewInventoryGuard,
	provideIDGenerator,
)

var applicationSet = wire.NewSet(
	appsweet.NewAddSweetUseCase,
	appsweet.NewListSweetsUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewQueryOrdersUseCase,
	apporder.NewUpdateOrderStatusUseCase,
	apporder.NewDeleteOrderUseCase,
)

var handlerSet = wire.NewSet(
	handler.NewSweetHandler,
	handler.NewOrderHandler,
	router.NewRouter,
)

// InitializeApp 根据配置组装 HTTP 引擎，cleanup 关闭数据库和 Redis 连接
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
	)
	return nil, nil, nil
}
