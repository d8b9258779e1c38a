package mysql

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL 错误码
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// isDuplicateError 判断是否违反唯一约束
// MySQL：1062 "Duplicate entry 'x' for key 'y'"
// SQLite："UNIQUE constraint failed: table.column"
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isOrderTokenDuplicate 判断是否违反 uk_orders_token
func isOrderTokenDuplicate(err error) bool {
	if !isDuplicateError(err) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "uk_orders_token") || strings.Contains(msg, "orders.token")
}

// isRetryableTxError 死锁和锁等待超时时 MySQL 已回滚整个事务，可以重新执行
func isRetryableTxError(err error) bool {
	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == errDeadlock || myErr.Number == errLockWaitTimeout
}
