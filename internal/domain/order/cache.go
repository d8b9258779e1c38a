package order

import (
	"context"
)

// Version 是一次缓存未命中时观察到的失效计数。
// 回填前缓存会重新比较该计数，期间发生过 Invalidate 就放弃回填，
// 避免并发读把已删除或已改状态的订单写回缓存。
type Version struct {
	// ByToken 为 true 时计数属于 token 维度，否则属于订单 id 维度。
	ByToken bool
	Seq     int64
	// Observed 为 false 时没有读到计数（缓存关闭或不可用），回填直接跳过。
	Observed bool
}

// Cache 是已提交订单的旁路缓存，数据库始终是事实来源。
// 未命中返回 (nil, v, nil)，调用方把缓存错误当作未命中处理。
type Cache interface {
	Get(ctx context.Context, id string) (*Order, Version, error)
	GetByToken(ctx context.Context, token int64) (*Order, Version, error)

	// Fill 在计数仍等于 v 时写入 o，否则什么都不做。
	Fill(ctx context.Context, o *Order, v Version) error

	// Invalidate 删除 o 的 id 与 token 两个条目，并推进两者的失效计数。
	Invalidate(ctx context.Context, o *Order) error
}
