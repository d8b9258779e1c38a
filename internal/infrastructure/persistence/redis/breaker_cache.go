package redis

import (
	"context"
	"errors"
	"sync"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	"github.com/xiebiao/sweetshop/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

// breakerOrderCache 用熔断器保护 order.Cache。熔断打开期间读按未命中处理、
// 回填直接跳过，Redis 故障不会给每个请求叠加一次连接超时。
//
// 失败或被拒绝的 Invalidate 记入 pending：在补做成功之前，
// 这些订单的读一律未命中且不回填，Redis 恢复后的第一次访问先补做失效。
type breakerOrderCache struct {
	inner order.Cache
	cb    *circuitbreaker.CircuitBreaker

	mu      sync.Mutex
	seq     uint64
	pending map[string]pendingInvalidation
}

type pendingInvalidation struct {
	token int64
	seq   uint64
}

// NewBreakerOrderCache 用 cb 包装 inner
func NewBreakerOrderCache(inner order.Cache, cb *circuitbreaker.CircuitBreaker) order.Cache {
	return &breakerOrderCache{
		inner:   inner,
		cb:      cb,
		pending: make(map[string]pendingInvalidation),
	}
}

func (c *breakerOrderCache) Get(ctx context.Context, id string) (*order.Order, order.Version, error) {
	c.flush(ctx)
	if c.isPending(id, 0) {
		return nil, order.Version{}, nil
	}

	var o *order.Order
	var v order.Version
	err := c.cb.Execute(func() error {
		var err error
		o, v, err = c.inner.Get(ctx, id)
		return err
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, order.Version{}, nil
	}
	return o, v, err
}

func (c *breakerOrderCache) GetByToken(ctx context.Context, token int64) (*order.Order, order.Version, error) {
	c.flush(ctx)
	if c.isPending("", token) {
		return nil, order.Version{}, nil
	}

	var o *order.Order
	var v order.Version
	err := c.cb.Execute(func() error {
		var err error
		o, v, err = c.inner.GetByToken(ctx, token)
		return err
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, order.Version{}, nil
	}
	return o, v, err
}

func (c *breakerOrderCache) Fill(ctx context.Context, o *order.Order, v order.Version) error {
	c.flush(ctx)
	if c.isPending(o.ID, o.Token) {
		return nil
	}

	err := c.cb.Execute(func() error {
		return c.inner.Fill(ctx, o, v)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil
	}
	return err
}

func (c *breakerOrderCache) Invalidate(ctx context.Context, o *order.Order) error {
	err := c.cb.Execute(func() error {
		return c.inner.Invalidate(ctx, o)
	})
	if err == nil {
		return nil
	}

	c.mu.Lock()
	c.seq++
	c.pending[o.ID] = pendingInvalidation{token: o.Token, seq: c.seq}
	c.mu.Unlock()

	if errors.Is(err, circuitbreaker.ErrOpen) {
		return apperrors.WithCode(err, apperrors.ErrCodeRedisError, "Order cache unavailable")
	}
	return err
}

func (c *breakerOrderCache) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// isPending 判断 id 或 token 是否仍有未完成的失效；空 id、零 token 不参与比较。
func (c *breakerOrderCache) isPending(id string, token int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[id]; ok && id != "" {
		return true
	}
	if token == 0 {
		return false
	}
	for _, p := range c.pending {
		if p.token == token {
			return true
		}
	}
	return false
}

// flush 补做积压的失效。条目只有在补做期间没有被再次登记时才移除。
func (c *breakerOrderCache) flush(ctx context.Context) {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return
	}
	batch := make(map[string]pendingInvalidation, len(c.pending))
	for id, p := range c.pending {
		batch[id] = p
	}
	c.mu.Unlock()

	for id, p := range batch {
		err := c.cb.Execute(func() error {
			return c.inner.Invalidate(ctx, &order.Order{ID: id, Token: p.token})
		})
		if err != nil {
			// 熔断仍然打开或 Redis 仍不可用，留到下次
			return
		}

		c.mu.Lock()
		if cur, ok := c.pending[id]; ok && cur.seq == p.seq {
			delete(c.pending, id)
		}
		c.mu.Unlock()
	}
}
