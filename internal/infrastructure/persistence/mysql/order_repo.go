package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

// newestFirst 按创建时间倒序，同一时刻创建的订单再按订单号数字倒序
const newestFirst = "created_at DESC, LENGTH(id) DESC, id DESC"

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 在嵌套事务中插入订单头和明细。外层已有事务时这是一个保存点，
// 唯一键冲突只回滚这次插入，调用方可以换订单号重试。
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	err := dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		switch {
		case isOrderTokenDuplicate(err):
			return order.ErrTokenConflict
		case isDuplicateError(err):
			return order.ErrDuplicateOrderID
		}
		return apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to create order")
	}

	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
	}
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *orderRepository) FindByToken(ctx context.Context, token int64) (*order.Order, error) {
	return r.findOne(ctx, "token = ?", token)
}

func (r *orderRepository) findOne(ctx context.Context, cond string, arg interface{}) (*order.Order, error) {
	var model OrderModel
	err := dbFromContext(ctx, r.db).
		Preload("Items", orderItemsByID).
		Where(cond, arg).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to query order")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) ExistsByToken(ctx context.Context, token int64) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&OrderModel{}).Where("token = ?", token).Count(&count).Error
	if err != nil {
		return false, apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to query order")
	}
	return count > 0, nil
}

func (r *orderRepository) LatestID(ctx context.Context) (string, error) {
	var ids []string
	err := dbFromContext(ctx, r.db).Model(&OrderModel{}).
		Order(newestFirst).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to query latest order")
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func (r *orderRepository) List(ctx context.Context) ([]*order.Order, error) {
	var models []OrderModel
	err := dbFromContext(ctx, r.db).
		Preload("Items", orderItemsByID).
		Order(newestFirst).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to list orders")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, nil
}

// UpdateStatus 只更新 status 和 updated_at
func (r *orderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := dbFromContext(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":     string(o.Status),
			"updated_at": o.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.WithCode(result.Error, apperrors.ErrCodeDatabaseError, "Failed to update order")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// Delete 先删明细再删订单头，不依赖数据库的级联删除
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Where("order_id = ?", id).Delete(&OrderItemModel{}).Error; err != nil {
		return apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to delete order items")
	}

	result := db.Where("id = ?", id).Delete(&OrderModel{})
	if result.Error != nil {
		return apperrors.WithCode(result.Error, apperrors.ErrCodeDatabaseError, "Failed to delete order")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:       item.ID,
			OrderID:  item.OrderID,
			SweetID:  item.SweetID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	return &OrderModel{
		ID:        o.ID,
		Token:     o.Token,
		Status:    string(o.Status),
		Total:     o.Total,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = order.OrderItem{
			ID:       item.ID,
			OrderID:  item.OrderID,
			SweetID:  item.SweetID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	return &order.Order{
		ID:        m.ID,
		Token:     m.Token,
		Status:    order.Status(m.Status),
		Total:     m.Total,
		Items:     items,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
