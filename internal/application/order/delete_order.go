package order

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/internal/domain/sweet"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/sweetshop/pkg/metrics"
	"github.com/xiebiao/sweetshop/pkg/tracing"
)

// DeleteOrderUseCase 取消订单：归还每一行的库存并删除订单及明细，原子完成。
type DeleteOrderUseCase struct {
	orderRepo order.Repository
	guard     sweet.InventoryGuard
	txManager *mysql.TxManager
	cache     order.Cache
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewDeleteOrderUseCase 创建删除订单用例
func NewDeleteOrderUseCase(
	orderRepo order.Repository,
	guard sweet.InventoryGuard,
	txManager *mysql.TxManager,
	cache order.Cache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{
		orderRepo: orderRepo,
		guard:     guard,
		txManager: txManager,
		cache:     cache,
		metrics:   m,
		logger:    logger,
	}
}

// Execute 归还库存并删除订单，两者要么都成功要么都不发生。
// 商品已下架的行无法归还，跳过并记录日志。
func (uc *DeleteOrderUseCase) Execute(ctx context.Context, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "DeleteOrder")
	span.SetAttributes(attribute.String("order.id", id))
	defer func() { tracing.EndSpan(span, err) }()

	if !order.IsValidOrderID(id) {
		return order.ErrOrderNotFound
	}

	var deleted *order.Order
	var missing []uint
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		o, err := uc.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		lines := make([]sweet.StockLine, len(o.Items))
		for i, item := range o.Items {
			lines[i] = sweet.StockLine{SweetID: item.SweetID, Quantity: item.Quantity}
		}
		missing, err = uc.guard.Restore(ctx, lines)
		if err != nil {
			return err
		}

		if err := uc.orderRepo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = o
		return nil
	})
	if err != nil {
		return failure(err, "Failed to delete order")
	}

	if len(missing) > 0 {
		uc.logger.Warn("stock not restored for removed sweets",
			zap.String("order_id", id),
			zap.Uints("sweet_ids", missing))
	}
	if err := uc.cache.Invalidate(ctx, deleted); err != nil {
		uc.logger.Warn("invalidate order cache failed", zap.String("order_id", id), zap.Error(err))
	}
	restored := 0
	for _, item := range deleted.Items {
		if !slices.Contains(missing, item.SweetID) {
			restored++
		}
	}
	uc.metrics.IncOrderDeleted(restored)
	uc.logger.Info("order deleted and stock restored",
		zap.String("order_id", id),
		zap.Int("items", len(deleted.Items)))

	return nil
}
