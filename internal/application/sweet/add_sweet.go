package sweet

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/sweetshop/internal/domain/sweet"
)

// AddSweetUseCase 商品上架。校验和名称唯一性由领域服务负责。
type AddSweetUseCase struct {
	sweetService sweet.Service
	logger       *zap.Logger
}

// NewAddSweetUseCase 创建上架用例
func NewAddSweetUseCase(sweetService sweet.Service, logger *zap.Logger) *AddSweetUseCase {
	return &AddSweetUseCase{
		sweetService: sweetService,
		logger:       logger,
	}
}

// AddSweetRequest 上架请求
type AddSweetRequest struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

func (uc *AddSweetUseCase) Execute(ctx context.Context, req AddSweetRequest) (*SweetResponse, error) {
	s, err := uc.sweetService.AddSweet(ctx, req.Name, sweet.Category(req.Category), req.Price, req.Quantity)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("sweet added",
		zap.Uint("sweet_id", s.ID),
		zap.String("name", s.Name),
		zap.String("quantity", s.Quantity.String()))
	return toSweetResponse(s), nil
}
