package mysql_test

import (
	"context"
	"errors"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql/mysqltest"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := mysqltest.NewDB(t)
	repo := mysql.NewSweetRepository(db)
	txm := mysql.NewTxManager(db)
	id := mysqltest.SeedSweet(t, db, "Ladoo", "15.5", "10")

	boom := errors.New("boom")
	err := txm.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.DecrStock(ctx, id, dec("4")))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, mysqltest.Stock(t, db, id).Equal(dec("10")))
}

func TestTxManager_Commit(t *testing.T) {
	ctx := context.Background()
	db := mysqltest.NewDB(t)
	repo := mysql.NewSweetRepository(db)
	txm := mysql.NewTxManager(db)
	id := mysqltest.SeedSweet(t, db, "Ladoo", "15.5", "10")

	err := txm.Transaction(ctx, func(ctx context.Context) error {
		return repo.DecrStock(ctx, id, dec("4"))
	})
	require.NoError(t, err)
	assert.True(t, mysqltest.Stock(t, db, id).Equal(dec("6")))
}

func TestTxManager_NestedRollsBackToSavepoint(t *testing.T) {
	ctx := context.Background()
	db := mysqltest.NewDB(t)
	repo := mysql.NewSweetRepository(db)
	txm := mysql.NewTxManager(db)
	id := mysqltest.SeedSweet(t, db, "Ladoo", "15.5", "10")

	err := txm.Transaction(ctx, func(ctx context.Context) error {
		if err := repo.DecrStock(ctx, id, dec("1")); err != nil {
			return err
		}
		inner := txm.Transaction(ctx, func(ctx context.Context) error {
			_ = repo.DecrStock(ctx, id, dec("5"))
			return errors.New("inner failure")
		})
		assert.Error(t, inner)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, mysqltest.Stock(t, db, id).Equal(dec("9")))
}

func TestTxManager_RetriesDeadlock(t *testing.T) {
	ctx := context.Background()
	db := mysqltest.NewDB(t)
	repo := mysql.NewSweetRepository(db)
	txm := mysql.NewTxManager(db)
	id := mysqltest.SeedSweet(t, db, "Ladoo", "15.5", "10")

	deadlock := &mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	lockWait := apperrors.WithCode(&mysqldriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"},
		apperrors.ErrCodeDatabaseError, "Failed to update stock")
	boom := errors.New("boom")

	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   error
		wantStock string
	}{
		{"deadlock then success", []error{deadlock}, 2, nil, "6"},
		{"wrapped lock wait timeout", []error{lockWait, deadlock}, 3, nil, "2"},
		{"gives up after three attempts", []error{deadlock, deadlock, deadlock}, 3, deadlock, "2"},
		{"other errors are not retried", []error{boom}, 1, boom, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := txm.Transaction(ctx, func(ctx context.Context) error {
				calls++
				if err := repo.DecrStock(ctx, id, dec("4")); err != nil {
					return err
				}
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			// 失败的尝试全部回滚，只有成功的那次扣减生效
			assert.True(t, mysqltest.Stock(t, db, id).Equal(dec(tt.wantStock)),
				mysqltest.Stock(t, db, id).String())
		})
	}
}

func TestTxManager_NestedIsNotRetried(t *testing.T) {
	ctx := context.Background()
	db := mysqltest.NewDB(t)
	txm := mysql.NewTxManager(db)

	inner := 0
	err := txm.Transaction(ctx, func(ctx context.Context) error {
		_ = txm.Transaction(ctx, func(ctx context.Context) error {
			inner++
			return &mysqldriver.MySQLError{Number: 1213}
		})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inner)
}
