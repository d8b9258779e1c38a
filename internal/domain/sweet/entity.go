package sweet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category 商品分类，取值固定
type Category string

const (
	CategoryMilkBased      Category = "Milk-Based"
	CategoryNutBased       Category = "Nut-Based"
	CategoryVegetableBased Category = "Vegetable-Based"
	CategoryFlourBased     Category = "Flour-Based"
	CategoryFried          Category = "Fried"
	CategoryDryFruitBased  Category = "Dry-Fruit-Based"
	CategoryChocolateBased Category = "Chocolate-Based"
	CategoryFruitBased     Category = "Fruit-Based"
	CategoryCoconutBased   Category = "Coconut-Based"
	CategoryFusion         Category = "Fusion"
)

// Categories 按展示顺序列出合法分类
var Categories = []Category{
	CategoryMilkBased,
	CategoryNutBased,
	CategoryVegetableBased,
	CategoryFlourBased,
	CategoryFried,
	CategoryDryFruitBased,
	CategoryChocolateBased,
	CategoryFruitBased,
	CategoryCoconutBased,
	CategoryFusion,
}

// IsValid 判断 c 是否为合法分类
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func categoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Sweet 商品及其库存。所有字段归目录管理，订单流程只改 Quantity。
type Sweet struct {
	ID        uint
	Name      string
	Category  Category
	Price     decimal.Decimal
	Quantity  decimal.Decimal // 不会为负
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSweet 创建商品，名称去除首尾空白
func NewSweet(name string, category Category, price, quantity decimal.Decimal) *Sweet {
	now := time.Now()
	return &Sweet{
		Name:      strings.TrimSpace(name),
		Category:  category,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// 价格和数量的小数位数，与 decimal(12,2) / decimal(12,3) 列一致。
// 超出的位数会被数据库四舍五入，扣减和归还的量就不再相等，所以在入口直接拒绝。
const (
	PriceScale    int32 = 2
	QuantityScale int32 = 3
)

// FitsScale 判断 v 的有效小数位不超过 places（1.500 视为 1.5）
func FitsScale(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Truncate(places))
}

// HasStock 判断当前库存是否够扣 qty
func (s *Sweet) HasStock(qty decimal.Decimal) bool {
	return s.Quantity.GreaterThanOrEqual(qty)
}
