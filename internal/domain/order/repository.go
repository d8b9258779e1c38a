package order

import (
	"context"
)

// Repository 订单仓储接口，由持久化层实现。
// ctx 中带有事务时，所有方法都加入该事务。
type Repository interface {
	// Create 整体插入订单头和明细。
	// 订单号冲突返回 ErrDuplicateOrderID，token 冲突返回 ErrTokenConflict；
	// 两种情况都不留下任何数据，外层事务仍可继续使用。
	Create(ctx context.Context, order *Order) error

	// FindByID 加载订单及明细
	FindByID(ctx context.Context, id string) (*Order, error)

	FindByToken(ctx context.Context, token int64) (*Order, error)

	ExistsByToken(ctx context.Context, token int64) (bool, error)

	// LatestID 返回最新订单的订单号，没有订单时返回空串
	LatestID(ctx context.Context) (string, error)

	// List 返回全部订单及明细，最新的在前
	List(ctx context.Context) ([]*Order, error)

	UpdateStatus(ctx context.Context, order *Order) error

	// Delete 删除订单及明细，没有删除任何订单行时返回 ErrOrderNotFound
	Delete(ctx context.Context, id string) error
}
