package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/sweetshop/internal/infrastructure/config"
)

// NewDB 创建MySQL连接池，按配置执行表结构迁移。只在 debug 模式下打印 SQL。
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return db, nil
}

// AutoMigrate 创建或扩展表结构，不会删除列；生产环境的表结构仍应使用版本化迁移管理
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&SweetModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// SweetModel 商品表，Quantity 是下单和删单时增减的库存
type SweetModel struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"uniqueIndex:uk_sweets_name;size:100;not null"`
	Category  string          `gorm:"index;size:50;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SweetModel) TableName() string {
	return "sweets"
}

// OrderModel 订单头。id 和 token 都是唯一键，仓储分别报告两种冲突。
type OrderModel struct {
	ID        string           `gorm:"primaryKey;size:32"`
	Token     int64            `gorm:"uniqueIndex:uk_orders_token;not null"`
	Status    string           `gorm:"index;size:20;not null;default:Pending"`
	Total     decimal.Decimal  `gorm:"type:decimal(18,5);not null"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"index"`
	UpdatedAt time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 订单明细，保存名称和单价快照
type OrderItemModel struct {
	ID       uint            `gorm:"primaryKey"`
	OrderID  string          `gorm:"index;size:32;not null"`
	SweetID  uint            `gorm:"index;not null"`
	Name     string          `gorm:"size:100;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}
