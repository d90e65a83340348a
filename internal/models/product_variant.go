package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品变体（颜色名 + 色板值）
type ProductVariant struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	ProductID uint           `gorm:"not null;index" json:"product_id"`  // 商品ID
	Name      string         `gorm:"type:varchar(60);not null" json:"name"`  // 变体名称（如 Noir）
	Value     string         `gorm:"type:varchar(60);not null" json:"value"` // 变体值（如 #1a1a1a）
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
