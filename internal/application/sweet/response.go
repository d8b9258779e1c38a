package sweet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/sweetshop/internal/domain/sweet"
)

// SweetResponse 商品目录视图
type SweetResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toSweetResponse(s *sweet.Sweet) *SweetResponse {
	return &SweetResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  string(s.Category),
		Price:     s.Price,
		Quantity:  s.Quantity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
