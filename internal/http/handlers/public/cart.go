package public

import (
	"strconv"

	"github.com/maison-next/internal/cart"
	"github.com/maison-next/internal/http/handlers/shared"
	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartVariantRequest 选中变体请求
type CartVariantRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CartAddRequest 添加购物车请求
type CartAddRequest struct {
	ProductID uint                `json:"product_id" binding:"required"`
	Quantity  int                 `json:"quantity"`
	Variant   *CartVariantRequest `json:"variant"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// NewCartSession 签发新的购物车会话标识
func (h *Handler) NewCartSession(c *gin.Context) {
	response.Success(c, gin.H{"session_id": uuid.New().String()})
}

// GetCart 获取当前会话购物车快照
func (h *Handler) GetCart(c *gin.Context) {
	sessionID, ok := cartSessionID(c)
	if !ok {
		return
	}
	response.Success(c, h.CartManager.Store(sessionID).Snapshot())
}

// AddCartItem 添加商品到购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	sessionID, ok := cartSessionID(c)
	if !ok {
		return
	}
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductRepo.GetByID(strconv.FormatUint(uint64(req.ProductID), 10))
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	if product == nil || !product.IsActive {
		shared.RespondError(c, response.CodeNotFound, "product not found", nil)
		return
	}

	var selected *cart.Variant
	if req.Variant != nil {
		selected = &cart.Variant{Name: req.Variant.Name, Value: req.Variant.Value}
	}
	store := h.CartManager.Store(sessionID)
	store.AddToCart(toCartProduct(product), req.Quantity, selected)
	response.Success(c, store.Snapshot())
}

// UpdateCartItem 设置购物车商品数量；数量 <= 0 等价于移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	sessionID, ok := cartSessionID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	store := h.CartManager.Store(sessionID)
	store.UpdateQuantity(uint(productID), req.Quantity)
	response.Success(c, store.Snapshot())
}

// RemoveCartItem 从购物车移除商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	sessionID, ok := cartSessionID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	store := h.CartManager.Store(sessionID)
	store.RemoveFromCart(uint(productID))
	response.Success(c, store.Snapshot())
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sessionID, ok := cartSessionID(c)
	if !ok {
		return
	}
	store := h.CartManager.Store(sessionID)
	store.ClearCart()
	response.Success(c, store.Snapshot())
}

// toCartProduct 将商品表记录裁剪为购物车快照结构
func toCartProduct(product *models.Product) cart.Product {
	variants := make([]cart.Variant, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, cart.Variant{Name: v.Name, Value: v.Value})
	}
	return cart.Product{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.PriceAmount,
		Color:    product.Color,
		Images:   product.Images,
		Variants: variants,
	}
}
