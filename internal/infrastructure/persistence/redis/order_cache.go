package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/xiebiao/sweetshop/internal/domain/order"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

// 键布局：
//
//	order:detail:{id}  -> 订单 JSON
//	order:token:{tok}  -> 订单 id
//	order:ver:{id}     -> id 维度失效计数
//	order:tokver:{tok} -> token 维度失效计数
func orderKey(id string) string {
	return "order:detail:" + id
}

func tokenKey(token int64) string {
	return fmt.Sprintf("order:token:%d", token)
}

func versionKey(id string) string {
	return "order:ver:" + id
}

func tokenVersionKey(token int64) string {
	return fmt.Sprintf("order:tokver:%d", token)
}

// 失效计数只需要比一次读请求活得久
const versionTTL = 24 * time.Hour

// fillScript 仅在失效计数未变化时写入两个条目。
// KEYS: 计数键, detail 键, token 键；ARGV: 期望计数, 订单 JSON, 订单 id, TTL 毫秒
var fillScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if cur ~= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[4]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[4])
	redis.call('SET', KEYS[3], ARGV[3], 'PX', ARGV[4])
else
	redis.call('SET', KEYS[2], ARGV[2])
	redis.call('SET', KEYS[3], ARGV[3])
end
return 1
`)

type orderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOrderCache 创建基于 Redis 的订单缓存，条目 ttl 后过期
func NewOrderCache(client *redis.Client, ttl time.Duration) order.Cache {
	return &orderCache{client: client, ttl: ttl}
}

func (c *orderCache) Get(ctx context.Context, id string) (*order.Order, order.Version, error) {
	vals, err := c.client.MGet(ctx, orderKey(id), versionKey(id)).Result()
	if err != nil {
		return nil, order.Version{}, apperrors.WithCode(err, apperrors.ErrCodeRedisError, "Failed to read order cache")
	}

	if o := c.decode(ctx, orderKey(id), vals[0]); o != nil {
		return o, order.Version{}, nil
	}
	return nil, order.Version{Seq: seqOf(vals[1]), Observed: true}, nil
}

func (c *orderCache) GetByToken(ctx context.Context, token int64) (*order.Order, order.Version, error) {
	vals, err := c.client.MGet(ctx, tokenKey(token), tokenVersionKey(token)).Result()
	if err != nil {
		return nil, order.Version{}, apperrors.WithCode(err, apperrors.ErrCodeRedisError, "Failed to read order cache")
	}
	miss := order.Version{ByToken: true, Seq: seqOf(vals[1]), Observed: true}

	id, ok := vals[0].(string)
	if !ok {
		return nil, miss, nil
	}
	data, err := c.client.Get(ctx, orderKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, miss, nil
	}
	if err != nil {
		return nil, order.Version{}, apperrors.WithCode(err, apperrors.ErrCodeRedisError, "Failed to read order cache")
	}

	o := c.decode(ctx, orderKey(id), data)
	if o == nil || o.Token != token {
		return nil, miss, nil
	}
	return o, order.Version{}, nil
}

// decode 把 MGET/GET 的结果还原成订单；损坏的条目被删除并按未命中处理。
func (c *orderCache) decode(ctx context.Context, key string, val interface{}) *order.Order {
	data, ok := val.(string)
	if !ok {
		return nil
	}

	var co cachedOrder
	if err := json.Unmarshal([]byte(data), &co); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return nil
	}
	return co.toEntity()
}

func seqOf(val interface{}) int64 {
	s, ok := val.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func (c *orderCache) Fill(ctx context.Context, o *order.Order, v order.Version) error {
	if !v.Observed {
		return nil
	}

	data, err := json.Marshal(fromEntity(o))
	if err != nil {
		return apperrors.Wrap(err, "Failed to encode order")
	}

	verKey := versionKey(o.ID)
	if v.ByToken {
		verKey = tokenVersionKey(o.Token)
	}
	keys := []string{verKey, orderKey(o.ID), tokenKey(o.Token)}
	if err := fillScript.Run(ctx, c.client, keys, v.Seq, data, o.ID, c.ttl.Milliseconds()).Err(); err != nil {
		return apperrors.WithCode(err, apperrors.ErrCodeRedisError, "Failed to write order cache")
	}
	return nil
}

func (c *orderCache) Invalidate(ctx context.Context, o *order.Order) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, orderKey(o.ID), tokenKey(o.Token))
		pipe.Incr(ctx, versionKey(o.ID))
		pipe.Expire(ctx, versionKey(o.ID), versionTTL)
		pipe.Incr(ctx, tokenVersionKey(o.Token))
		pipe.Expire(ctx, tokenVersionKey(o.Token), versionTTL)
		return nil
	})
	if err != nil {
		return apperrors.WithCode(err, apperrors.ErrCodeRedisError, "Failed to invalidate order cache")
	}
	return nil
}

// NopOrderCache 在关闭 Redis 时使用，所有查询都未命中。
type NopOrderCache struct{}

// NewNopOrderCache 返回不存储任何内容的缓存
func NewNopOrderCache() order.Cache {
	return NopOrderCache{}
}

func (NopOrderCache) Get(context.Context, string) (*order.Order, order.Version, error) {
	return nil, order.Version{}, nil
}

func (NopOrderCache) GetByToken(context.Context, int64) (*order.Order, order.Version, error) {
	return nil, order.Version{}, nil
}

func (NopOrderCache) Fill(context.Context, *order.Order, order.Version) error { return nil }
func (NopOrderCache) Invalidate(context.Context, *order.Order) error         { return nil }

type cachedOrder struct {
	ID        string            `json:"id"`
	Token     int64             `json:"token"`
	Status    string            `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	Items     []cachedOrderItem `json:"items"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type cachedOrderItem struct {
	ID       uint            `json:"id"`
	SweetID  uint            `json:"sweetId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

func fromEntity(o *order.Order) cachedOrder {
	items := make([]cachedOrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = cachedOrderItem{
			ID:       item.ID,
			SweetID:  item.SweetID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return cachedOrder{
		ID:        o.ID,
		Token:     o.Token,
		Status:    string(o.Status),
		Total:     o.Total,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (co cachedOrder) toEntity() *order.Order {
	items := make([]order.OrderItem, len(co.Items))
	for i, item := range co.Items {
		items[i] = order.OrderItem{
			ID:       item.ID,
			OrderID:  co.ID,
			SweetID:  item.SweetID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return &order.Order{
		ID:        co.ID,
		Token:     co.Token,
		Status:    order.Status(co.Status),
		Total:     co.Total,
		Items:     items,
		CreatedAt: co.CreatedAt,
		UpdatedAt: co.UpdatedAt,
	}
}
