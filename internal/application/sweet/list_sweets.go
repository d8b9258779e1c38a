package sweet

import (
	"context"
	"strings"

	"github.com/xiebiao/sweetshop/internal/domain/sweet"
)

// ListSweetsUseCase 商品目录查询
type ListSweetsUseCase struct {
	sweetService sweet.Service
}

// NewListSweetsUseCase 创建目录查询用例
func NewListSweetsUseCase(sweetService sweet.Service) *ListSweetsUseCase {
	return &ListSweetsUseCase{
		sweetService: sweetService,
	}
}

// ListSweetsRequest 列表过滤条件，空字段不过滤
type ListSweetsRequest struct {
	Category string
	Keyword  string // 按名称模糊匹配
}

// Execute 按 id 顺序列出商品
func (uc *ListSweetsUseCase) Execute(ctx context.Context, req ListSweetsRequest) ([]*SweetResponse, error) {
	params := sweet.ListParams{
		Category: sweet.Category(strings.TrimSpace(req.Category)),
		Keyword:  strings.TrimSpace(req.Keyword),
	}
	if params.Category != "" && !params.Category.IsValid() {
		return nil, sweet.ErrInvalidCategory
	}

	sweets, err := uc.sweetService.ListSweets(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]*SweetResponse, len(sweets))
	for i, s := range sweets {
		list[i] = toSweetResponse(s)
	}
	return list, nil
}

// Get 查询单个商品，不存在返回 ErrSweetNotFound
func (uc *ListSweetsUseCase) Get(ctx context.Context, id uint) (*SweetResponse, error) {
	if id == 0 {
		return nil, sweet.ErrSweetNotFound
	}
	s, err := uc.sweetService.GetSweet(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSweetResponse(s), nil
}
