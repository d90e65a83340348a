package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/maison-next/internal/constants"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/repository"
)

// BannerService 内容投放服务
type BannerService struct {
	repo repository.BannerRepository
}

// NewBannerService 创建 Banner 服务
func NewBannerService(repo repository.BannerRepository) *BannerService {
	return &BannerService{repo: repo}
}

// BannerInput 创建/更新 Banner 输入
type BannerInput struct {
	Name         string
	Position     string
	Title        string
	Subtitle     string
	Image        string
	MobileImage  string
	LinkType     string
	LinkValue    string
	OpenInNewTab bool
	IsActive     *bool
	StartAt      *time.Time
	EndAt        *time.Time
	SortOrder    int
}

// ListPublic 获取指定位置当前有效的 Banner
func (s *BannerService) ListPublic(position string, limit int) ([]models.Banner, error) {
	if !isValidBannerPosition(position) {
		return nil, ErrBannerPositionBad
	}
	return s.repo.ListValidByPosition(position, limit, time.Now())
}

// ListAdmin 后台 Banner 列表
func (s *BannerService) ListAdmin(position, search string, isActive *bool, page, pageSize int) ([]models.Banner, int64, error) {
	filter := repository.BannerListFilter{
		Page:     page,
		PageSize: pageSize,
		Position: position,
		Search:   search,
		IsActive: isActive,
	}
	return s.repo.List(filter)
}

// GetByID 获取 Banner 详情
func (s *BannerService) GetByID(id uint) (*models.Banner, error) {
	banner, err := s.repo.GetByID(strconv.FormatUint(uint64(id), 10))
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrNotFound
	}
	return banner, nil
}

// Create 创建 Banner
func (s *BannerService) Create(input BannerInput) (*models.Banner, error) {
	position := strings.TrimSpace(input.Position)
	if !isValidBannerPosition(position) {
		return nil, ErrBannerPositionBad
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	banner := &models.Banner{
		Name:         strings.TrimSpace(input.Name),
		Position:     position,
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		Image:        strings.TrimSpace(input.Image),
		MobileImage:  strings.TrimSpace(input.MobileImage),
		LinkType:     normalizeBannerLinkType(input.LinkType),
		LinkValue:    strings.TrimSpace(input.LinkValue),
		OpenInNewTab: input.OpenInNewTab,
		IsActive:     isActive,
		StartAt:      input.StartAt,
		EndAt:        input.EndAt,
		SortOrder:    input.SortOrder,
	}
	if err := s.repo.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Update 更新 Banner
func (s *BannerService) Update(id uint, input BannerInput) (*models.Banner, error) {
	banner, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if position := strings.TrimSpace(input.Position); position != "" {
		if !isValidBannerPosition(position) {
			return nil, ErrBannerPositionBad
		}
		banner.Position = position
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		banner.Name = name
	}
	banner.Title = input.Title
	banner.Subtitle = input.Subtitle
	if image := strings.TrimSpace(input.Image); image != "" {
		banner.Image = image
	}
	banner.MobileImage = strings.TrimSpace(input.MobileImage)
	banner.LinkType = normalizeBannerLinkType(input.LinkType)
	banner.LinkValue = strings.TrimSpace(input.LinkValue)
	banner.OpenInNewTab = input.OpenInNewTab
	banner.StartAt = input.StartAt
	banner.EndAt = input.EndAt
	banner.SortOrder = input.SortOrder
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}

	if err := s.repo.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete 删除 Banner
func (s *BannerService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(strconv.FormatUint(uint64(id), 10))
}

func isValidBannerPosition(position string) bool {
	switch position {
	case constants.BannerPositionHome, constants.BannerPositionCollection, constants.BannerPositionCheckout:
		return true
	default:
		return false
	}
}

func normalizeBannerLinkType(linkType string) string {
	switch strings.ToLower(strings.TrimSpace(linkType)) {
	case "product":
		return "product"
	case "category":
		return "category"
	case "url":
		return "url"
	default:
		return "none"
	}
}
