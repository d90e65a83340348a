package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID      uint           `gorm:"not null;index" json:"order_id"`                          // 订单ID
	ProductID    uint           `gorm:"not null;index" json:"product_id"`                        // 商品ID
	ProductName  string         `gorm:"type:varchar(200);not null" json:"product_name"`          // 下单时商品名快照
	VariantName  string         `gorm:"type:varchar(60)" json:"variant_name"`                    // 选中变体名
	VariantValue string         `gorm:"type:varchar(60)" json:"variant_value"`                   // 选中变体值
	UnitPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 下单时单价快照
	Quantity     int            `gorm:"not null" json:"quantity"`                                // 数量
	CreatedAt    time.Time      `json:"created_at"`                                              // 创建时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
