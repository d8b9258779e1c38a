package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type breakerFixture struct {
	cache *breakerOrderCache
	mr    *miniredis.Miniredis
	cb    *circuitbreaker.CircuitBreaker
	clk   *testClock
}

func newBreakerCache(t *testing.T) *breakerFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	clk := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := circuitbreaker.New(circuitbreaker.Settings{
		Name:        "order-cache",
		Timeout:     time.Hour,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
		Now:         clk.Now,
	})
	cache := NewBreakerOrderCache(NewOrderCache(client, time.Minute), cb).(*breakerOrderCache)
	return &breakerFixture{cache: cache, mr: mr, cb: cb, clk: clk}
}

func codeOf(t *testing.T, err error) int {
	t.Helper()

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestBreakerOrderCache_PassesThroughWhenClosed(t *testing.T) {
	ctx := context.Background()
	f := newBreakerCache(t)
	o := sampleOrder()

	fill(t, f.cache, o)

	got, _, err := f.cache.Get(ctx, "ORD001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ORD001", got.ID)

	byToken, _, err := f.cache.GetByToken(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, byToken)

	require.NoError(t, f.cache.Invalidate(ctx, o))
	assert.Equal(t, circuitbreaker.StateClosed, f.cb.State())
	assert.Zero(t, f.cache.pendingCount())
}

func TestBreakerOrderCache_OpensOnRedisFailure(t *testing.T) {
	ctx := context.Background()
	f := newBreakerCache(t)
	o := sampleOrder()
	f.mr.Close()

	// 未达到阈值前，失败以 Redis 错误返回
	for i := 0; i < 2; i++ {
		_, _, err := f.cache.Get(ctx, "ORD001")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeRedisError, codeOf(t, err))
	}
	require.Equal(t, circuitbreaker.StateOpen, f.cb.State())

	got, v, err := f.cache.Get(ctx, "ORD001")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, v.Observed)

	got, _, err = f.cache.GetByToken(ctx, 1001)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, f.cache.Fill(ctx, o, order.Version{Observed: true}))

	err = f.cache.Invalidate(ctx, o)
	require.Error(t, err)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, apperrors.ErrCodeRedisError, codeOf(t, err))
	assert.Equal(t, 1, f.cache.pendingCount())
}

func TestBreakerOrderCache_ReplaysPendingInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newBreakerCache(t)
	o := sampleOrder()
	fill(t, f.cache, o)

	f.mr.Close()
	for i := 0; i < 2; i++ {
		require.Error(t, f.cache.Invalidate(ctx, o))
	}
	require.Equal(t, circuitbreaker.StateOpen, f.cb.State())
	require.Equal(t, 1, f.cache.pendingCount())

	// Redis 回来了，但熔断仍打开：旧条目还在，读也不能命中它
	require.NoError(t, f.mr.Restart())
	assert.True(t, f.mr.Exists("order:detail:ORD001"))
	got, _, err := f.cache.Get(ctx, "ORD001")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, f.cache.Fill(ctx, o, order.Version{Observed: true}))

	// 熔断进入半开后，第一次访问先补做失效
	f.clk.Advance(2 * time.Hour)
	got, v, err := f.cache.GetByToken(ctx, 1001)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), v.Seq)
	assert.Zero(t, f.cache.pendingCount())
	assert.Equal(t, circuitbreaker.StateClosed, f.cb.State())
	assert.False(t, f.mr.Exists("order:detail:ORD001"))
	assert.False(t, f.mr.Exists("order:token:1001"))
}

func TestBreakerOrderCache_PendingBlocksReadsAndFills(t *testing.T) {
	f := newBreakerCache(t)
	o := sampleOrder()
	other := order.NewOrder(2002, nil)
	other.AssignID("ORD002")

	f.cache.mu.Lock()
	f.cache.seq++
	f.cache.pending[o.ID] = pendingInvalidation{token: o.Token, seq: f.cache.seq}
	f.cache.mu.Unlock()

	assert.True(t, f.cache.isPending("ORD001", 0))
	assert.True(t, f.cache.isPending("", 1001))
	assert.False(t, f.cache.isPending("ORD002", 2002))

	// flush 成功后条目被移除，其它订单不受影响
	fill(t, f.cache, other)
	assert.Zero(t, f.cache.pendingCount())
	assert.True(t, f.mr.Exists("order:detail:ORD002"))
}

func TestBreakerOrderCache_MissIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	f := newBreakerCache(t)

	for i := 0; i < 5; i++ {
		got, _, err := f.cache.Get(ctx, "ORD404")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, circuitbreaker.StateClosed, f.cb.State())
	assert.Equal(t, uint32(5), f.cb.Counts().TotalSuccesses)
}
