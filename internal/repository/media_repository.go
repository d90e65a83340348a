package repository

import (
	"errors"
	"strings"

	"github.com/maison-next/internal/models"

	"gorm.io/gorm"
)

// MediaRepository 媒体资源数据访问接口
type MediaRepository interface {
	List(filter MediaListFilter) ([]models.MediaAsset, int64, error)
	GetByID(id uint) (*models.MediaAsset, error)
	Create(asset *models.MediaAsset) error
	Delete(id uint) error
}

// GormMediaRepository GORM 实现
type GormMediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository 创建媒体仓库
func NewMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// List 媒体列表
func (r *GormMediaRepository) List(filter MediaListFilter) ([]models.MediaAsset, int64, error) {
	var assets []models.MediaAsset
	query := r.db.Model(&models.MediaAsset{})

	if scene := strings.TrimSpace(filter.Scene); scene != "" {
		query = query.Where("scene = ?", scene)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("origin_name LIKE ? OR path LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// GetByID 根据 ID 获取媒体记录
func (r *GormMediaRepository) GetByID(id uint) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	if err := r.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

// Create 创建媒体记录
func (r *GormMediaRepository) Create(asset *models.MediaAsset) error {
	return r.db.Create(asset).Error
}

// Delete 删除媒体记录
func (r *GormMediaRepository) Delete(id uint) error {
	return r.db.Delete(&models.MediaAsset{}, id).Error
}
