package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/sweetshop/internal/application/order"
	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/internal/interface/http/dto"
	"github.com/xiebiao/sweetshop/pkg/response"
)

// OrderHandler 订单路由处理器
type OrderHandler struct {
	createOrderUseCase  *apporder.CreateOrderUseCase
	queryOrdersUseCase  *apporder.QueryOrdersUseCase
	updateStatusUseCase *apporder.UpdateOrderStatusUseCase
	deleteOrderUseCase  *apporder.DeleteOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	queryOrdersUseCase *apporder.QueryOrdersUseCase,
	updateStatusUseCase *apporder.UpdateOrderStatusUseCase,
	deleteOrderUseCase *apporder.DeleteOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:  createOrderUseCase,
		queryOrdersUseCase:  queryOrdersUseCase,
		updateStatusUseCase: updateStatusUseCase,
		deleteOrderUseCase:  deleteOrderUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  在一个事务中校验每行库存、快照单价并扣减库存
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateOrderRequest true "token 和商品行"
// @Success      201 {object} response.Response{data=apporder.OrderResponse}
// @Failure      400 {object} response.Response "缺少字段、token 已被占用或库存不足"
// @Failure      404 {object} response.Response "商品不存在"
// @Failure      500 {object} response.Response
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			SweetID:  item.SweetID,
			Quantity: item.Quantity,
		}
	}

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		Token: req.Token,
		Items: items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", result)
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  最新的在前，包含明细
// @Tags         orders
// @Produce      json
// @Success      200 {object} response.Response{data=[]apporder.OrderResponse}
// @Failure      500 {object} response.Response
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	result, err := h.queryOrdersUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Orders retrieved successfully", result)
}

// GetOrder 按订单号查询
// @Summary      查询订单
// @Tags         orders
// @Produce      json
// @Param        id path string true "订单号" example(ORD001)
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	result, err := h.queryOrdersUseCase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Order retrieved successfully", result)
}

// GetOrderByToken 按取餐 token 查询
// @Summary      按 token 查询订单
// @Tags         orders
// @Produce      json
// @Param        token path int true "取餐 token"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在，token 格式错误时同样返回"
// @Router       /orders/token/{token} [get]
func (h *OrderHandler) GetOrderByToken(c *gin.Context) {
	token, err := strconv.ParseInt(c.Param("token"), 10, 64)
	if err != nil {
		response.Error(c, order.ErrOrderNotFound)
		return
	}

	result, err := h.queryOrdersUseCase.GetByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Order retrieved successfully", result)
}

// UpdateOrderStatus 修改订单状态
// @Summary      修改订单状态
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "订单号"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderResponse}
// @Failure      400 {object} response.Response "缺少状态或状态无效"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateStatusUseCase.Execute(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Order status updated successfully", result)
}

// DeleteOrder 取消订单并归还库存
// @Summary      删除订单并归还库存
// @Tags         orders
// @Produce      json
// @Param        id path string true "订单号"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      500 {object} response.Response
// @Router       /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.deleteOrderUseCase.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Order deleted successfully and stock restored", nil)
}
