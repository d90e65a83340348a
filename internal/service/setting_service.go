package service

import (
	"encoding/json"
	"time"

	"github.com/maison-next/internal/cache"
	"github.com/maison-next/internal/constants"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/repository"
)

const settingCacheTTL = 30 * time.Second

// SettingService 设置业务服务
// 读路径带进程内过期缓存，写路径主动失效
type SettingService struct {
	repo   repository.SettingRepository
	cached *cache.TTLEntry[map[string]models.JSON]
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{
		repo:   repo,
		cached: cache.NewTTLEntry[map[string]models.JSON](settingCacheTTL),
	}
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	return all[key], nil
}

// GetSiteConfig 获取站点配置（合并默认值）
func (s *SettingService) GetSiteConfig(defaults map[string]interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	for k, v := range defaults {
		data[k] = v
	}
	value, err := s.GetByKey(constants.SettingKeySiteConfig)
	if err != nil {
		return nil, err
	}
	for k, v := range value {
		data[k] = v
	}
	return data, nil
}

// GetOrderPaymentExpireMinutes 获取订单支付超时分钟配置
func (s *SettingService) GetOrderPaymentExpireMinutes(defaultValue int) (int, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyOrderConfig)
	if err != nil {
		return defaultValue, err
	}
	raw, ok := value[constants.SettingFieldPaymentExpireMinutes]
	if !ok {
		return defaultValue, nil
	}
	switch v := raw.(type) {
	case float64:
		if v > 0 {
			return int(v), nil
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n > 0 {
			return int(n), nil
		}
	}
	return defaultValue, nil
}

// Update 写入设置并失效缓存
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	setting := &models.Setting{
		Key:       key,
		ValueJSON: models.JSON(value),
	}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, err
	}
	s.cached.Invalidate()
	return setting.ValueJSON, nil
}

// ListAll 全部设置
func (s *SettingService) ListAll() (map[string]models.JSON, error) {
	return s.loadAll()
}

func (s *SettingService) loadAll() (map[string]models.JSON, error) {
	now := time.Now()
	if value, fresh := s.cached.Get(now); fresh {
		return value, nil
	}
	settings, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	all := make(map[string]models.JSON, len(settings))
	for _, item := range settings {
		all[item.Key] = item.ValueJSON
	}
	s.cached.Set(all, now)
	return all, nil
}
