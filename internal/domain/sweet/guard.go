package sweet

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// StockLine 一条申请的（商品, 数量）
type StockLine struct {
	SweetID  uint
	Quantity decimal.Decimal
}

// InventoryGuard 负责订单行的库存校验和增减。
// Check 和 Commit 必须在同一个事务里调用；Check 只是预检，
// 真正防止超卖的是 Commit 里的条件扣减。
type InventoryGuard interface {
	// Check 一次查询加载所有商品，按商品汇总需求量后校验库存，不修改任何数据
	Check(ctx context.Context, lines []StockLine) (map[uint]*Sweet, error)

	// Commit 扣减库存。sweets 是 Check 的结果，只用于在库存不足时给出商品名
	Commit(ctx context.Context, lines []StockLine, sweets map[uint]*Sweet) error

	// Restore 归还库存。已被删除的商品跳过，并返回它们的 id
	Restore(ctx context.Context, lines []StockLine) (missing []uint, err error)
}

type inventoryGuard struct {
	repo Repository
}

// NewInventoryGuard 创建 InventoryGuard
func NewInventoryGuard(repo Repository) InventoryGuard {
	return &inventoryGuard{repo: repo}
}

func (g *inventoryGuard) Check(ctx context.Context, lines []StockLine) (map[uint]*Sweet, error) {
	ids, demand := aggregate(lines)

	found, err := g.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, ErrSweetsNotFound
	}

	sweets := make(map[uint]*Sweet, len(found))
	for _, s := range found {
		sweets[s.ID] = s
	}

	// 按请求顺序报告第一个库存不足的商品
	for _, id := range ids {
		s, ok := sweets[id]
		if !ok {
			return nil, ErrSweetsNotFound
		}
		if !s.HasStock(demand[id]) {
			return nil, InsufficientStock(s.Name)
		}
	}
	return sweets, nil
}

func (g *inventoryGuard) Commit(ctx context.Context, lines []StockLine, sweets map[uint]*Sweet) error {
	ids, demand := aggregate(lines)
	// 按 id 升序加行锁，两个订单即使商品顺序相反也不会死锁
	slices.Sort(ids)
	for _, id := range ids {
		err := g.repo.DecrStock(ctx, id, demand[id])
		if errors.Is(err, ErrInsufficientStock) {
			return InsufficientStock(sweetName(sweets, id))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *inventoryGuard) Restore(ctx context.Context, lines []StockLine) ([]uint, error) {
	ids, amount := aggregate(lines)
	slices.Sort(ids)
	var missing []uint
	for _, id := range ids {
		err := g.repo.IncrStock(ctx, id, amount[id])
		if errors.Is(err, ErrSweetNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	return missing, nil
}

// aggregate 按商品汇总数量，保持首次出现的顺序
func aggregate(lines []StockLine) ([]uint, map[uint]decimal.Decimal) {
	ids := make([]uint, 0, len(lines))
	total := make(map[uint]decimal.Decimal, len(lines))
	for _, l := range lines {
		q, seen := total[l.SweetID]
		if !seen {
			ids = append(ids, l.SweetID)
		}
		total[l.SweetID] = q.Add(l.Quantity)
	}
	return ids, total
}

func sweetName(sweets map[uint]*Sweet, id uint) string {
	if s, ok := sweets[id]; ok {
		return s.Name
	}
	return "sweet " + strconv.FormatUint(uint64(id), 10)
}
