package dto

import (
	"github.com/shopspring/decimal"
)

// AddSweetRequest POST /sweets 请求体
type AddSweetRequest struct {
	Name     string          `json:"name" binding:"max=100" example:"Kaju Katli"`
	Category string          `json:"category" example:"Nut-Based"`
	Price    decimal.Decimal `json:"price" swaggertype:"number" example:"15.5"`
	Quantity decimal.Decimal `json:"quantity" swaggertype:"number" example:"40"`
}

// ListSweetsRequest GET /sweets 的查询参数
type ListSweetsRequest struct {
	Category string `form:"category" example:"Milk-Based"`
	Keyword  string `form:"keyword" binding:"max=100" example:"ras"`
}
