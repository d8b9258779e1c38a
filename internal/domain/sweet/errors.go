package sweet

import (
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

var (
	ErrSweetNotFound = apperrors.New(apperrors.ErrCodeSweetNotFound, "Sweet not found")

	// ErrSweetsNotFound 批量查询时有任意一个 id 不存在
	ErrSweetsNotFound = apperrors.New(apperrors.ErrCodeSweetNotFound, "One or more sweets not found")

	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeConflict, "A sweet with this name already exists")

	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "Insufficient stock")

	ErrNameRequired    = apperrors.New(apperrors.ErrCodeInvalidParams, "Name cannot be empty")
	ErrInvalidPrice    = apperrors.New(apperrors.ErrCodeInvalidParams, "Price must be greater than 0")
	ErrInvalidStock    = apperrors.New(apperrors.ErrCodeInvalidParams, "quantity must be greater than or equal to 0")
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "Quantity must be greater than 0")

	ErrPriceScale    = apperrors.New(apperrors.ErrCodeInvalidParams, "Price can have at most 2 decimal places")
	ErrQuantityScale = apperrors.New(apperrors.ErrCodeInvalidParams, "Quantity can have at most 3 decimal places")
)

// ErrInvalidCategory 错误信息中列出可选分类
var ErrInvalidCategory = apperrors.Newf(apperrors.ErrCodeInvalidParams,
	"Invalid category. Valid categories are: %s", categoryNames())

// InsufficientStock 返回带商品名的库存不足错误
func InsufficientStock(name string) error {
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock, "Insufficient stock for %s", name)
}
