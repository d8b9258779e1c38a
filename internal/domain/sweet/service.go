package sweet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Service 商品目录的领域规则
type Service interface {
	// AddSweet 校验并保存新商品：名称唯一，价格 > 0，库存 >= 0，分类合法
	AddSweet(ctx context.Context, name string, category Category, price, quantity decimal.Decimal) (*Sweet, error)

	GetSweet(ctx context.Context, id uint) (*Sweet, error)

	ListSweets(ctx context.Context, params ListParams) ([]*Sweet, error)
}

type service struct {
	repo Repository
}

// NewService 创建目录服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddSweet(ctx context.Context, name string, category Category, price, quantity decimal.Decimal) (*Sweet, error) {
	sw := NewSweet(name, category, price, quantity)

	if sw.Name == "" {
		return nil, ErrNameRequired
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if !FitsScale(price, PriceScale) {
		return nil, ErrPriceScale
	}
	if quantity.IsNegative() {
		return nil, ErrInvalidStock
	}
	if !FitsScale(quantity, QuantityScale) {
		return nil, ErrQuantityScale
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	existing, err := s.repo.FindByName(ctx, sw.Name)
	if err == nil && existing != nil {
		return nil, ErrNameDuplicate
	}
	if err != nil && !errors.Is(err, ErrSweetNotFound) {
		return nil, err
	}

	// 并发插入同名商品仍由唯一索引兜底
	if err := s.repo.Create(ctx, sw); err != nil {
		return nil, err
	}
	return sw, nil
}

func (s *service) GetSweet(ctx context.Context, id uint) (*Sweet, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListSweets(ctx context.Context, params ListParams) ([]*Sweet, error) {
	return s.repo.List(ctx, params)
}
