// Package mysqltest 提供与生产表结构一致的内存数据库，供仓储、用例和 handler 测试使用
package mysqltest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
)

var seq atomic.Int64

// NewDB 打开独立的内存数据库并迁移表结构。
// 只用一个连接，事务串行执行，效果相当于 MySQL 上的行锁。
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:sweetshop_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

// SeedSweet 插入一个商品并返回 id
func SeedSweet(t testing.TB, db *gorm.DB, name, price, quantity string) uint {
	t.Helper()

	m := &mysql.SweetModel{
		Name:     name,
		Category: "Milk-Based",
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(quantity),
	}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}

// Stock 读取商品当前库存
func Stock(t testing.TB, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()

	var m mysql.SweetModel
	require.NoError(t, db.First(&m, id).Error)
	return m.Quantity
}

// SetPrice 绕过业务层直接修改商品单价
func SetPrice(t testing.TB, db *gorm.DB, id uint, price string) {
	t.Helper()

	require.NoError(t, db.Model(&mysql.SweetModel{}).Where("id = ?", id).
		Update("price", decimal.RequireFromString(price)).Error)
}

// DeleteSweet 删除商品行
func DeleteSweet(t testing.TB, db *gorm.DB, id uint) {
	t.Helper()

	require.NoError(t, db.Delete(&mysql.SweetModel{}, id).Error)
}

// CountOrderItems 统计订单的明细行数
func CountOrderItems(t testing.TB, db *gorm.DB, orderID string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&mysql.OrderItemModel{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}
