package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appsweet "github.com/xiebiao/sweetshop/internal/application/sweet"
	"github.com/xiebiao/sweetshop/internal/domain/sweet"
	"github.com/xiebiao/sweetshop/internal/interface/http/dto"
	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
	"github.com/xiebiao/sweetshop/pkg/response"
)

// SweetHandler 商品目录路由处理器
type SweetHandler struct {
	addSweetUseCase   *appsweet.AddSweetUseCase
	listSweetsUseCase *appsweet.ListSweetsUseCase
}

// NewSweetHandler 创建商品处理器
func NewSweetHandler(addSweetUseCase *appsweet.AddSweetUseCase, listSweetsUseCase *appsweet.ListSweetsUseCase) *SweetHandler {
	return &SweetHandler{
		addSweetUseCase:   addSweetUseCase,
		listSweetsUseCase: listSweetsUseCase,
	}
}

// AddSweet 商品上架
// @Summary      商品上架
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Param        request body dto.AddSweetRequest true "商品"
// @Success      201 {object} response.Response{data=appsweet.SweetResponse}
// @Failure      400 {object} response.Response "参数校验失败"
// @Failure      409 {object} response.Response "商品名称已存在"
// @Router       /sweets [post]
func (h *SweetHandler) AddSweet(c *gin.Context) {
	var req dto.AddSweetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.addSweetUseCase.Execute(c.Request.Context(), appsweet.AddSweetRequest{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sweet added successfully", result)
}

// ListSweets 商品列表
// @Summary      商品列表
// @Tags         sweets
// @Produce      json
// @Param        category query string false "按分类过滤"
// @Param        keyword  query string false "名称包含"
// @Success      200 {object} response.Response{data=[]appsweet.SweetResponse}
// @Failure      400 {object} response.Response "分类无效"
// @Router       /sweets [get]
func (h *SweetHandler) ListSweets(c *gin.Context) {
	var req dto.ListSweetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperrors.WithCode(err, apperrors.ErrCodeBindError, "Invalid query parameters"))
		return
	}

	result, err := h.listSweetsUseCase.Execute(c.Request.Context(), appsweet.ListSweetsRequest{
		Category: req.Category,
		Keyword:  req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "All sweets fetched successfully", result)
}

// GetSweet 查询单个商品
// @Summary      查询商品
// @Tags         sweets
// @Produce      json
// @Param        id path int true "商品 id"
// @Success      200 {object} response.Response{data=appsweet.SweetResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /sweets/{id} [get]
func (h *SweetHandler) GetSweet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, sweet.ErrSweetNotFound)
		return
	}

	result, err := h.listSweetsUseCase.Get(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Sweet fetched successfully", result)
}
