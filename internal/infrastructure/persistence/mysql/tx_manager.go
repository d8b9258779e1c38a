package mysql

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// maxTxAttempts 死锁或锁等待超时后，整个事务最多执行的次数
const maxTxAttempts = 3

// TxManager 在 context 里携带事务。仓储通过 dbFromContext 取出同一个事务，
// fn 里调用的所有仓储方法一起提交或一起回滚。
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建 TxManager
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction fn 返回 nil 时提交，否则回滚。
// ctx 里已经有事务时开启保存点（嵌套事务）。
// 最外层事务遇到 MySQL 死锁（1213）或锁等待超时（1205）时整体重试，
// 所以 fn 每次执行都必须从头计算它的结果。
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := guard.Commit(ctx, lines, sweets); err != nil {
//	        return err
//	    }
//	    return orderRepo.Create(ctx, o)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txKey{}).(*gorm.DB); nested {
		return m.run(ctx, fn)
	}

	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = m.run(ctx, fn)
		if !isRetryableTxError(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFromContext(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext 返回 ctx 中的事务，没有则返回绑定了 ctx 的 fallback
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
