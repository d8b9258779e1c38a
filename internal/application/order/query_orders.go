package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/pkg/metrics"
	"github.com/xiebiao/sweetshop/pkg/tracing"
)

// QueryOrdersUseCase 订单查询：列表、按 id、按 token。单笔查询先走缓存。
type QueryOrdersUseCase struct {
	orderRepo order.Repository
	cache     order.Cache
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewQueryOrdersUseCase 创建查询用例
func NewQueryOrdersUseCase(orderRepo order.Repository, cache order.Cache, m *metrics.Metrics, logger *zap.Logger) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{
		orderRepo: orderRepo,
		cache:     cache,
		metrics:   m,
		logger:    logger,
	}
}

// List 返回全部订单，最新的在前
func (uc *QueryOrdersUseCase) List(ctx context.Context) (_ []*OrderResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "ListOrders")
	defer func() { tracing.EndSpan(span, err) }()

	orders, err := uc.orderRepo.List(ctx)
	if err != nil {
		return nil, failure(err, "Failed to retrieve orders")
	}

	resp := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	return resp, nil
}

// GetByID 按 id 查询订单，不存在返回 ErrOrderNotFound
func (uc *QueryOrdersUseCase) GetByID(ctx context.Context, id string) (_ *OrderResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "GetOrder")
	defer func() { tracing.EndSpan(span, err) }()

	if !order.IsValidOrderID(id) {
		return nil, order.ErrOrderNotFound
	}

	o, err := uc.load(ctx,
		func(ctx context.Context) (*order.Order, order.Version, error) { return uc.cache.Get(ctx, id) },
		func(ctx context.Context) (*order.Order, error) { return uc.orderRepo.FindByID(ctx, id) },
	)
	if err != nil {
		return nil, failure(err, "Failed to retrieve order")
	}
	return toOrderResponse(o), nil
}

// GetByToken 按 token 查询订单
func (uc *QueryOrdersUseCase) GetByToken(ctx context.Context, token int64) (_ *OrderResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "GetOrderByToken")
	defer func() { tracing.EndSpan(span, err) }()

	if token <= 0 {
		return nil, order.ErrOrderNotFound
	}

	o, err := uc.load(ctx,
		func(ctx context.Context) (*order.Order, order.Version, error) { return uc.cache.GetByToken(ctx, token) },
		func(ctx context.Context) (*order.Order, error) { return uc.orderRepo.FindByToken(ctx, token) },
	)
	if err != nil {
		return nil, failure(err, "Failed to retrieve order")
	}
	return toOrderResponse(o), nil
}

// load 先查缓存，未命中再查库并回填。缓存错误记日志后按未命中处理。
// 回填携带查缓存时看到的失效计数，期间订单被改状态或删除则不会写回。
func (uc *QueryOrdersUseCase) load(
	ctx context.Context,
	fromCache func(context.Context) (*order.Order, order.Version, error),
	fromStore func(context.Context) (*order.Order, error),
) (*order.Order, error) {
	cached, version, err := fromCache(ctx)
	switch {
	case err != nil:
		uc.metrics.IncCache("error")
		uc.logger.Warn("read order cache failed", zap.Error(err))
	case cached != nil:
		uc.metrics.IncCache("hit")
		return cached, nil
	default:
		uc.metrics.IncCache("miss")
	}

	o, err := fromStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Fill(ctx, o, version); err != nil {
		uc.logger.Warn("fill order cache failed", zap.String("order_id", o.ID), zap.Error(err))
	}
	return o, nil
}
