package order

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/internal/domain/sweet"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql/mysqltest"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/sweetshop/pkg/metrics"
)

type fixture struct {
	db        *gorm.DB
	orderRepo order.Repository
	metrics   *metrics.Metrics
	create    *CreateOrderUseCase
	query     *QueryOrdersUseCase
	update    *UpdateOrderStatusUseCase
	delete    *DeleteOrderUseCase
}

func newFixture(t *testing.T, cache order.Cache) *fixture {
	t.Helper()
	return newFixtureWith(t, cache, nil)
}

// newFixtureWith 允许测试用 wrap 包装订单仓储，例如在读取中途插入并发写。
func newFixtureWith(t *testing.T, cache order.Cache, wrap func(order.Repository) order.Repository) *fixture {
	t.Helper()

	if cache == nil {
		cache = redis.NewNopOrderCache()
	}
	db := mysqltest.NewDB(t)
	log := zaptest.NewLogger(t)
	m := metrics.New(prometheus.NewRegistry())

	orderRepo := mysql.NewOrderRepository(db)
	if wrap != nil {
		orderRepo = wrap(orderRepo)
	}
	guard := sweet.NewInventoryGuard(mysql.NewSweetRepository(db))
	txm := mysql.NewTxManager(db)
	idGen := order.NewIDGenerator(orderRepo, order.WithCollisionHook(func(string) { m.IncOrderIDCollision() }))

	return &fixture{
		db:        db,
		orderRepo: orderRepo,
		metrics:   m,
		create:    NewCreateOrderUseCase(orderRepo, guard, idGen, txm, m, log),
		query:     NewQueryOrdersUseCase(orderRepo, cache, m, log),
		update:    NewUpdateOrderStatusUseCase(orderRepo, txm, cache, m, log),
		delete:    NewDeleteOrderUseCase(orderRepo, guard, txm, cache, m, log),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(id uint, qty string) CreateOrderItem {
	return CreateOrderItem{SweetID: id, Quantity: d(qty)}
}
