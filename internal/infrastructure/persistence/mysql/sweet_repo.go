package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/sweetshop/internal/domain/sweet"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

type sweetRepository struct {
	db *gorm.DB
}

// NewSweetRepository 创建商品仓储
func NewSweetRepository(db *gorm.DB) sweet.Repository {
	return &sweetRepository{db: db}
}

func (r *sweetRepository) Create(ctx context.Context, s *sweet.Sweet) error {
	model := toSweetModel(s)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return sweet.ErrNameDuplicate
		}
		return apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to create sweet")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *sweetRepository) FindByID(ctx context.Context, id uint) (*sweet.Sweet, error) {
	var model SweetModel
	err := dbFromContext(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sweet.ErrSweetNotFound
		}
		return nil, apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to query sweet")
	}
	return toSweetEntity(&model), nil
}

func (r *sweetRepository) FindByIDs(ctx context.Context, ids []uint) ([]*sweet.Sweet, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []SweetModel
	err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&models).Error
	if err != nil {
		return nil, apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to query sweets")
	}

	sweets := make([]*sweet.Sweet, len(models))
	for i := range models {
		sweets[i] = toSweetEntity(&models[i])
	}
	return sweets, nil
}

func (r *sweetRepository) FindByName(ctx context.Context, name string) (*sweet.Sweet, error) {
	var model SweetModel
	err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sweet.ErrSweetNotFound
		}
		return nil, apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to query sweet")
	}
	return toSweetEntity(&model), nil
}

func (r *sweetRepository) List(ctx context.Context, params sweet.ListParams) ([]*sweet.Sweet, error) {
	query := dbFromContext(ctx, r.db).Model(&SweetModel{})
	if params.Category != "" {
		query = query.Where("category = ?", string(params.Category))
	}
	if params.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+params.Keyword+"%")
	}

	var models []SweetModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WithCode(err, apperrors.ErrCodeDatabaseError, "Failed to list sweets")
	}

	sweets := make([]*sweet.Sweet, len(models))
	for i := range models {
		sweets[i] = toSweetEntity(&models[i])
	}
	return sweets, nil
}

// DecrStock 条件扣减库存（原子操作）
//
//	UPDATE sweets SET quantity = quantity - ? WHERE id = ? AND quantity >= ?
//
// 即使之前读到的库存已过期，也不会扣成负数。
func (r *sweetRepository) DecrStock(ctx context.Context, id uint, qty decimal.Decimal) error {
	result := dbFromContext(ctx, r.db).Model(&SweetModel{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return apperrors.WithCode(result.Error, apperrors.ErrCodeDatabaseError, "Failed to update stock")
	}
	if result.RowsAffected == 0 {
		return sweet.ErrInsufficientStock
	}
	return nil
}

func (r *sweetRepository) IncrStock(ctx context.Context, id uint, qty decimal.Decimal) error {
	result := dbFromContext(ctx, r.db).Model(&SweetModel{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if result.Error != nil {
		return apperrors.WithCode(result.Error, apperrors.ErrCodeDatabaseError, "Failed to restore stock")
	}
	if result.RowsAffected == 0 {
		return sweet.ErrSweetNotFound
	}
	return nil
}

func toSweetModel(s *sweet.Sweet) *SweetModel {
	return &SweetModel{
		ID:        s.ID,
		Name:      s.Name,
		Category:  string(s.Category),
		Price:     s.Price,
		Quantity:  s.Quantity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSweetEntity(m *SweetModel) *sweet.Sweet {
	return &sweet.Sweet{
		ID:        m.ID,
		Name:      m.Name,
		Category:  sweet.Category(m.Category),
		Price:     m.Price,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
