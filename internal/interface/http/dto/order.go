package dto

import (
	"github.com/shopspring/decimal"
)

// CreateOrderRequest POST /orders 请求体。
// 必填和取值范围在用例里校验，调用方拿到的是约定的错误信息而不是 validator 的输出。
type CreateOrderRequest struct {
	Token int64                    `json:"token" example:"1001"`
	Items []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest 请求中的一行商品
type CreateOrderItemRequest struct {
	SweetID  uint            `json:"sweetId" example:"1"`
	Quantity decimal.Decimal `json:"quantity" swaggertype:"number" example:"2"`
}

// UpdateOrderStatusRequest PATCH /orders/:id/status 请求体
type UpdateOrderStatusRequest struct {
	Status string `json:"status" example:"Preparing" enums:"Pending,Preparing,Ready,Completed"`
}
