package sweet

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository 商品仓储接口，ctx 中带有事务时加入该事务
type Repository interface {
	Create(ctx context.Context, sweet *Sweet) error

	FindByID(ctx context.Context, id uint) (*Sweet, error)

	// FindByIDs 一次查询读出 ids 中存在的商品，不存在的直接缺席
	FindByIDs(ctx context.Context, ids []uint) ([]*Sweet, error)

	FindByName(ctx context.Context, name string) (*Sweet, error)

	List(ctx context.Context, params ListParams) ([]*Sweet, error)

	// DecrStock 仅在 quantity >= qty 时扣减，未更新任何行返回 ErrInsufficientStock
	DecrStock(ctx context.Context, id uint, qty decimal.Decimal) error

	// IncrStock 无条件增加库存，商品不存在返回 ErrSweetNotFound
	IncrStock(ctx context.Context, id uint, qty decimal.Decimal) error
}

// ListParams 目录列表的过滤条件
type ListParams struct {
	Category Category
	Keyword  string
}
