package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	orderIDPrefix = "ORD"

	// DefaultMaxIDAttempts 退回时间戳编号之前最多尝试的顺序编号个数
	DefaultMaxIDAttempts = 10
)

var orderIDPattern = regexp.MustCompile(`^ORD\d{3,}$`)

// FormatOrderID 生成 ORD + 至少三位数字的订单号：ORD001、ORD1000
func FormatOrderID(n int64) string {
	return fmt.Sprintf("%s%03d", orderIDPrefix, n)
}

// ParseOrderNumber 解析订单号的数字部分
func ParseOrderNumber(id string) (int64, bool) {
	if !strings.HasPrefix(id, orderIDPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, orderIDPrefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsValidOrderID 判断 id 是否为 ORD + 数字的形式
func IsValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// timestampOrderID 取毫秒时间戳后六位
func timestampOrderID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return orderIDPrefix + ms
}

// IDGenerator 以乐观插入分配订单号：直接插入候选编号，主键冲突就换下一个。
type IDGenerator struct {
	repo        Repository
	maxAttempts int
	now         func() time.Time
	onCollision func(id string)
}

// IDGeneratorOption IDGenerator 的配置项
type IDGeneratorOption func(*IDGenerator)

// WithMaxAttempts 设置顺序编号的尝试次数
func WithMaxAttempts(n int) IDGeneratorOption {
	return func(g *IDGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithClock 替换时间戳编号使用的时钟
func WithClock(now func() time.Time) IDGeneratorOption {
	return func(g *IDGenerator) {
		g.now = now
	}
}

// WithCollisionHook 每遇到一个已占用的编号就回调一次
func WithCollisionHook(fn func(id string)) IDGeneratorOption {
	return func(g *IDGenerator) {
		g.onCollision = fn
	}
}

// NewIDGenerator 创建订单号生成器
func NewIDGenerator(repo Repository, opts ...IDGeneratorOption) *IDGenerator {
	g := &IDGenerator{
		repo:        repo,
		maxAttempts: DefaultMaxIDAttempts,
		now:         time.Now,
		onCollision: func(string) {},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next 返回最新订单之后的下一个候选编号
func (g *IDGenerator) Next(ctx context.Context) (int64, error) {
	latest, err := g.repo.LatestID(ctx)
	if err != nil {
		return 0, err
	}
	n, ok := ParseOrderNumber(latest)
	if !ok {
		return 1, nil
	}
	return n + 1, nil
}

// Insert 为 o 分配订单号并落库。
// 先尝试最多 maxAttempts 个顺序编号，再尝试一次时间戳编号；非冲突错误立即返回。
func (g *IDGenerator) Insert(ctx context.Context, o *Order) error {
	n, err := g.Next(ctx)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id := FormatOrderID(n)
		err := g.insert(ctx, o, id)
		if !errors.Is(err, ErrDuplicateOrderID) {
			return err
		}
		g.onCollision(id)
		n++
	}

	id := timestampOrderID(g.now())
	err = g.insert(ctx, o, id)
	if errors.Is(err, ErrDuplicateOrderID) {
		g.onCollision(id)
		return ErrOrderIDExhausted
	}
	return err
}

func (g *IDGenerator) insert(ctx context.Context, o *Order, id string) error {
	o.AssignID(id)
	err := g.repo.Create(ctx, o)
	if err != nil {
		o.AssignID("")
	}
	return err
}
