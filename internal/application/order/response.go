package order

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
	"github.com/xiebiao/sweetshop/pkg/metrics"
)

// OrderResponse 订单用例统一返回的订单视图
type OrderResponse struct {
	ID        string              `json:"id"`
	Token     int64               `json:"token"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// OrderItemResponse 订单明细，含下单时的名称和单价快照
type OrderItemResponse struct {
	ID       uint            `json:"id"`
	OrderID  string          `json:"orderId"`
	SweetID  uint            `json:"sweetId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:       item.ID,
			OrderID:  item.OrderID,
			SweetID:  item.SweetID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return &OrderResponse{
		ID:        o.ID,
		Token:     o.Token,
		Status:    o.Status.String(),
		Total:     o.Total,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// failure 业务错误原样返回；服务端错误换成通用提示，避免暴露内部信息
func failure(err error, message string) error {
	if apperrors.GetAppError(err).HTTPStatus() >= http.StatusInternalServerError {
		return apperrors.Wrap(err, message)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case apperrors.GetAppError(err).HTTPStatus() >= http.StatusInternalServerError:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeRejected
	}
}
