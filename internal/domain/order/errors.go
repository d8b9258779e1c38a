package order

import (
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

var (
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "Order not found")

	ErrStatusRequired          = apperrors.New(apperrors.ErrCodeInvalidStatus, "Status is required")
	ErrInvalidStatus           = apperrors.New(apperrors.ErrCodeInvalidStatus, "Invalid status")
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidStatus, "Status transition not allowed")

	ErrTokenConflict = apperrors.New(apperrors.ErrCodeTokenConflict, "Token already in use")

	ErrInvalidOrderInput = apperrors.New(apperrors.ErrCodeInvalidParams, "Token and items are required")
	ErrInvalidQuantity   = apperrors.New(apperrors.ErrCodeInvalidParams, "Item quantity must be greater than 0")
	ErrQuantityScale     = apperrors.New(apperrors.ErrCodeInvalidParams, "Item quantity can have at most 3 decimal places")

	// ErrDuplicateOrderID 订单号已被占用，IDGenerator 据此换下一个候选
	ErrDuplicateOrderID = apperrors.New(apperrors.ErrCodeOrderIDConflict, "Order id already exists")

	ErrOrderIDExhausted = apperrors.New(apperrors.ErrCodeInternal, "Failed to generate order id")
)
