package order

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/internal/infrastructure/persistence/mysql/mysqltest"
)

// 场景F：删除订单归还库存
func TestDeleteOrder_RestoresStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	s1 := mysqltest.SeedSweet(t, f.db, "Ladoo", "10", "50")
	s2 := mysqltest.SeedSweet(t, f.db, "Barfi", "20", "8")

	created, err := f.create.Execute(ctx, CreateOrderRequest{Token: 5001, Items: []CreateOrderItem{line(s1, "2"), line(s2, "3")}})
	require.NoError(t, err)
	assert.True(t, mysqltest.Stock(t, f.db, s1).Equal(d("48")))
	assert.True(t, mysqltest.Stock(t, f.db, s2).Equal(d("5")))

	require.NoError(t, f.delete.Execute(ctx, created.ID))

	assert.True(t, mysqltest.Stock(t, f.db, s1).Equal(d("50")))
	assert.True(t, mysqltest.Stock(t, f.db, s2).Equal(d("8")))
	assert.Zero(t, mysqltest.CountOrderItems(t, f.db, created.ID))

	_, err = f.query.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	_, err = f.query.GetByToken(ctx, 5001)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OrdersDeletedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.StockRestoredTotal))
}

func TestDeleteOrder_FreesToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	s1 := mysqltest.SeedSweet(t, f.db, "Ladoo", "10", "50")

	created, err := f.create.Execute(ctx, CreateOrderRequest{Token: 42, Items: []CreateOrderItem{line(s1, "1")}})
	require.NoError(t, err)
	require.NoError(t, f.delete.Execute(ctx, created.ID))

	again, err := f.create.Execute(ctx, CreateOrderRequest{Token: 42, Items: []CreateOrderItem{line(s1, "1")}})
	require.NoError(t, err)
	assert.Equal(t, int64(42), again.Token)
	assert.True(t, mysqltest.Stock(t, f.db, s1).Equal(d("49")))
}

func TestDeleteOrder_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for _, id := range []string{"ORD404", "bogus", ""} {
		err := f.delete.Execute(ctx, id)
		assert.Equal(t, order.ErrOrderNotFound, err, id)
	}
	assert.Zero(t, testutil.ToFloat64(f.metrics.OrdersDeletedTotal))
}

func TestDeleteOrder_SkipsRemovedSweet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	s1 := mysqltest.SeedSweet(t, f.db, "Ladoo", "10", "50")
	s2 := mysqltest.SeedSweet(t, f.db, "Barfi", "20", "8")

	created, err := f.create.Execute(ctx, CreateOrderRequest{Token: 1, Items: []CreateOrderItem{line(s1, "2"), line(s2, "3")}})
	require.NoError(t, err)

	mysqltest.DeleteSweet(t, f.db, s2)

	require.NoError(t, f.delete.Execute(ctx, created.ID))
	assert.True(t, mysqltest.Stock(t, f.db, s1).Equal(d("50")))
	assert.Zero(t, mysqltest.CountOrderItems(t, f.db, created.ID))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StockRestoredTotal))
}

func TestCreateDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	s1 := mysqltest.SeedSweet(t, f.db, "Ladoo", "10", "7.25")
	s2 := mysqltest.SeedSweet(t, f.db, "Barfi", "20", "3")

	for i := 0; i < 5; i++ {
		created, err := f.create.Execute(ctx, CreateOrderRequest{
			Token: int64(i + 1),
			Items: []CreateOrderItem{line(s1, "1.25"), line(s2, "3"), line(s1, "6")},
		})
		require.NoError(t, err)
		assert.True(t, mysqltest.Stock(t, f.db, s1).IsZero())
		assert.True(t, mysqltest.Stock(t, f.db, s2).IsZero())

		require.NoError(t, f.delete.Execute(ctx, created.ID))
		assert.True(t, mysqltest.Stock(t, f.db, s1).Equal(d("7.25")))
		assert.True(t, mysqltest.Stock(t, f.db, s2).Equal(d("3")))
	}
}
