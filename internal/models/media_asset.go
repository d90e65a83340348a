package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaAsset 媒体资源记录
type MediaAsset struct {
	ID          uint           `gorm:"primarykey" json:"id"`                           // 主键
	Scene       string         `gorm:"type:varchar(30);not null;index" json:"scene"`   // 上传场景（product/banner/...）
	Path        string         `gorm:"type:varchar(500);not null" json:"path"`         // 存储相对路径
	OriginName  string         `gorm:"type:varchar(300)" json:"origin_name"`           // 原始文件名
	ContentType string         `gorm:"type:varchar(100)" json:"content_type"`          // MIME 类型
	SizeBytes   int64          `gorm:"not null;default:0" json:"size_bytes"`           // 文件大小
	Width       int            `gorm:"not null;default:0" json:"width"`                // 图片宽度
	Height      int            `gorm:"not null;default:0" json:"height"`               // 图片高度
	UploadedBy  *uint          `gorm:"index" json:"uploaded_by,omitempty"`             // 上传管理员ID
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除
}

// TableName 指定表名
func (MediaAsset) TableName() string {
	return "media_assets"
}
