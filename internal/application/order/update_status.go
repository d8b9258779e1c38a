package order

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/sweetshop/pkg/metrics"
	"github.com/xiebiao/sweetshop/pkg/tracing"
)

// UpdateOrderStatusUseCase 按状态流转表修改订单状态，只改 status 和 updatedAt。
type UpdateOrderStatusUseCase struct {
	orderRepo order.Repository
	txManager *mysql.TxManager
	cache     order.Cache
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewUpdateOrderStatusUseCase 创建状态变更用例
func NewUpdateOrderStatusUseCase(
	orderRepo order.Repository,
	txManager *mysql.TxManager,
	cache order.Cache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
		cache:     cache,
		metrics:   m,
		logger:    logger,
	}
}

// Execute 先校验目标状态，再在一个事务中加载、流转并保存订单
func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, id, status string) (_ *OrderResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "UpdateOrderStatus")
	span.SetAttributes(attribute.String("order.id", id), attribute.String("order.status", status))
	defer func() { tracing.EndSpan(span, err) }()

	target, err := order.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if !order.IsValidOrderID(id) {
		return nil, order.ErrOrderNotFound
	}

	var updated *order.Order
	var previous order.Status
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		o, err := uc.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous = o.Status
		if err := o.TransitionTo(target); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, failure(err, "Failed to update order status")
	}

	if err := uc.cache.Invalidate(ctx, updated); err != nil {
		uc.logger.Warn("invalidate order cache failed", zap.String("order_id", id), zap.Error(err))
	}
	uc.metrics.IncStatusChange(target.String())
	uc.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", previous.String()),
		zap.String("to", target.String()))

	return toOrderResponse(updated), nil
}
