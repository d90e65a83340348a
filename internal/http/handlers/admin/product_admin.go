package admin

import (
	"strconv"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductVariantRequest 商品变体请求
type ProductVariantRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CategoryID  uint                    `json:"category_id"`
	Slug        string                  `json:"slug" binding:"required"`
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Color       string                  `json:"color"`
	PriceAmount decimal.Decimal         `json:"price_amount"`
	Currency    string                  `json:"currency"`
	Images      []string                `json:"images"`
	Tags        []string                `json:"tags"`
	Stock       int                     `json:"stock"`
	IsActive    *bool                   `json:"is_active"`
	SortOrder   int                     `json:"sort_order"`
	Variants    []ProductVariantRequest `json:"variants"`
}

func (r ProductRequest) toServiceInput() service.ProductInput {
	var variants []service.VariantInput
	if r.Variants != nil {
		variants = make([]service.VariantInput, 0, len(r.Variants))
		for _, v := range r.Variants {
			variants = append(variants, service.VariantInput{Name: v.Name, Value: v.Value})
		}
	}
	return service.ProductInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		PriceAmount: r.PriceAmount,
		Currency:    r.Currency,
		Images:      r.Images,
		Tags:        r.Tags,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
		Variants:    variants,
	}
}

// ListProducts 获取商品列表 (Admin)
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListAdmin(c.Query("category_id"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 获取商品详情 (Admin)
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetAdminByID(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Create(req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Update(c.Param("id"), req.toServiceInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.ProductService.Delete(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
