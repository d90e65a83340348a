package service

import (
	"strings"

	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/repository"
)

// CategoryService 系列业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建系列服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新系列输入
type CategoryInput struct {
	Slug        string
	Name        string
	Description string
	Icon        string
	SortOrder   int
}

// ListAll 获取全部系列
func (s *CategoryService) ListAll() ([]models.Category, error) {
	return s.repo.ListAll()
}

// GetBySlug 按标识获取系列
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// GetByID 按 ID 获取系列
func (s *CategoryService) GetByID(id string) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// Create 创建系列
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugExists
	}

	category := &models.Category{
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Icon:        strings.TrimSpace(input.Icon),
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新系列
func (s *CategoryService) Update(id string, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != "" && slug != category.Slug {
		existing, err := s.repo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
			return nil, ErrSlugExists
		}
		category.Slug = slug
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	category.Description = input.Description
	category.Icon = strings.TrimSpace(input.Icon)
	category.SortOrder = input.SortOrder

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除系列
func (s *CategoryService) Delete(id string) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
