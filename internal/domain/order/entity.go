package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单聚合根，明细随订单一起创建和删除。
// Total 在创建时按明细快照算定，之后不再重算。
type Order struct {
	ID        string // ORD + 补零序号
	Token     int64  // 取餐号，在现存订单中唯一
	Status    Status
	Total     decimal.Decimal
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem 订单明细。Name、Price 是下单时的快照，SweetID 只作引用。
type OrderItem struct {
	ID       uint
	OrderID  string
	SweetID  uint
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Subtotal 小计 = 单价 × 数量
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

// NewOrder 创建 Pending 状态的订单并算定总价，订单号在插入时分配
func NewOrder(token int64, items []OrderItem) *Order {
	now := time.Now()
	o := &Order{
		Token:     token,
		Status:    StatusPending,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.Total = o.CalculateTotal()
	return o
}

// CalculateTotal 汇总明细小计
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TransitionTo 按状态流转表切换到 target
func (o *Order) TransitionTo(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// AssignID 给订单头和每行明细设置订单号
func (o *Order) AssignID(id string) {
	o.ID = id
	for i := range o.Items {
		o.Items[i].OrderID = id
	}
}
