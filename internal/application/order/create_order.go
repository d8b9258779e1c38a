package order

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/internal/domain/sweet"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/sweetshop/pkg/metrics"
	"github.com/xiebiao/sweetshop/pkg/tracing"
)

// CreateOrderUseCase 下单用例：校验请求、检查库存、快照单价、分配订单号并扣减库存，
// 全部在一个事务中完成。
type CreateOrderUseCase struct {
	orderRepo order.Repository
	guard     sweet.InventoryGuard
	idGen     *order.IDGenerator
	txManager *mysql.TxManager
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	guard sweet.InventoryGuard,
	idGen *order.IDGenerator,
	txManager *mysql.TxManager,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		guard:     guard,
		idGen:     idGen,
		txManager: txManager,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Token int64
	Items []CreateOrderItem
}

// CreateOrderItem 请求中的一行商品
type CreateOrderItem struct {
	SweetID  uint
	Quantity decimal.Decimal
}

// Execute 执行下单。先校验输入，再读库；之后任何一步失败都会回滚整个事务，
// 不会出现只扣了部分库存或只写了部分明细的情况。
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "CreateOrder")
	span.SetAttributes(attribute.Int64("order.token", req.Token), attribute.Int("order.items", len(req.Items)))
	finish := uc.metrics.StartOrderCreation()
	defer func() {
		finish(outcome(err))
		tracing.EndSpan(span, err)
	}()

	lines, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	var created *order.Order
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		exists, err := uc.orderRepo.ExistsByToken(ctx, req.Token)
		if err != nil {
			return err
		}
		if exists {
			return order.ErrTokenConflict
		}

		sweets, err := uc.guard.Check(ctx, lines)
		if err != nil {
			return err
		}

		items := make([]order.OrderItem, len(req.Items))
		for i, item := range req.Items {
			s := sweets[item.SweetID]
			items[i] = order.OrderItem{
				SweetID:  s.ID,
				Name:     s.Name,
				Price:    s.Price,
				Quantity: item.Quantity,
			}
		}
		o := order.NewOrder(req.Token, items)

		// 并发使用同一 token 的订单会在这里因唯一索引返回 ErrTokenConflict
		if err := uc.idGen.Insert(ctx, o); err != nil {
			return err
		}

		if err := uc.guard.Commit(ctx, lines, sweets); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, failure(err, "Failed to create order")
	}

	// 新订单不写缓存，由第一次读回填，回填受失效计数保护
	span.SetAttributes(attribute.String("order.id", created.ID))
	uc.logger.Info("order created",
		zap.String("order_id", created.ID),
		zap.Int64("token", created.Token),
		zap.String("total", created.Total.String()),
		zap.Int("items", len(created.Items)))

	return toOrderResponse(created), nil
}

func validateCreate(req CreateOrderRequest) ([]sweet.StockLine, error) {
	if req.Token <= 0 || len(req.Items) == 0 {
		return nil, order.ErrInvalidOrderInput
	}

	lines := make([]sweet.StockLine, len(req.Items))
	for i, item := range req.Items {
		if item.SweetID == 0 {
			return nil, order.ErrInvalidOrderInput
		}
		if !item.Quantity.IsPositive() {
			return nil, order.ErrInvalidQuantity
		}
		if !sweet.FitsScale(item.Quantity, sweet.QuantityScale) {
			return nil, order.ErrQuantityScale
		}
		lines[i] = sweet.StockLine{SweetID: item.SweetID, Quantity: item.Quantity}
	}
	return lines, nil
}
