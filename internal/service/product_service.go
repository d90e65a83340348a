package service

import (
	"strconv"
	"strings"

	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// VariantInput 商品变体输入
type VariantInput struct {
	Name  string
	Value string
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	Color       string
	PriceAmount decimal.Decimal
	Currency    string
	Images      []string
	Tags        []string
	Stock       int
	IsActive    *bool
	SortOrder   int
	Variants    []VariantInput
}

// ListPublic 获取公开商品列表（仅上架）
func (s *ProductService) ListPublic(categoryID, search, color string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       search,
		Color:        color,
		OnlyActive:   true,
		WithCategory: true,
		WithVariants: true,
	}
	return s.repo.List(filter)
}

// GetPublicBySlug 获取公开商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(categoryID, search string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       search,
		OnlyActive:   false,
		WithCategory: true,
		WithVariants: true,
	}
	return s.repo.List(filter)
}

// GetAdminByID 获取后台商品详情
func (s *ProductService) GetAdminByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	priceAmount := input.PriceAmount.Round(2)
	if priceAmount.LessThanOrEqual(decimal.Zero) || currency == "" {
		return nil, ErrProductPriceInvalid
	}

	slug := strings.TrimSpace(input.Slug)
	existing, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Color:       strings.TrimSpace(input.Color),
		PriceAmount: models.NewMoneyFromDecimal(priceAmount),
		Currency:    currency,
		Images:      input.Images,
		Tags:        input.Tags,
		Stock:       input.Stock,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	if len(input.Variants) > 0 {
		if err := s.repo.ReplaceVariants(product.ID, buildVariants(product.ID, input.Variants)); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(idString(product.ID))
}

// Update 更新商品
func (s *ProductService) Update(id string, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	priceAmount := input.PriceAmount.Round(2)
	if priceAmount.LessThanOrEqual(decimal.Zero) || currency == "" {
		return nil, ErrProductPriceInvalid
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != "" && slug != product.Slug {
		existing, err := s.repo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, ErrSlugExists
		}
		product.Slug = slug
	}

	if input.CategoryID != 0 {
		product.CategoryID = input.CategoryID
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	product.Description = input.Description
	product.Color = strings.TrimSpace(input.Color)
	product.PriceAmount = models.NewMoneyFromDecimal(priceAmount)
	product.Currency = currency
	product.Images = input.Images
	product.Tags = input.Tags
	product.Stock = input.Stock
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	if input.Variants != nil {
		if err := s.repo.ReplaceVariants(product.ID, buildVariants(product.ID, input.Variants)); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(id)
}

// Delete 删除商品
func (s *ProductService) Delete(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func buildVariants(productID uint, inputs []VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, item := range inputs {
		name := strings.TrimSpace(item.Name)
		value := strings.TrimSpace(item.Value)
		if name == "" || value == "" {
			continue
		}
		variants = append(variants, models.ProductVariant{
			ProductID: productID,
			Name:      name,
			Value:     value,
		})
	}
	return variants
}
