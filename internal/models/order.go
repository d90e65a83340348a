package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo       string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	SessionID     string         `gorm:"type:varchar(64);index" json:"-"`                           // 下单购物车会话ID
	CustomerName  string         `gorm:"type:varchar(120);not null" json:"customer_name"`           // 收件人姓名
	CustomerPhone string         `gorm:"type:varchar(32);not null;index" json:"customer_phone"`     // 收件人手机号
	ShippingAddr  string         `gorm:"type:text;not null" json:"shipping_address"`                // 收货地址
	Status        string         `gorm:"index;not null" json:"status"`                              // 订单状态
	Currency      string         `gorm:"not null" json:"currency"`                                  // 币种
	TotalAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 实付金额
	ClientIP      string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`               // 下单客户端IP
	ExpiresAt     *time.Time     `gorm:"index" json:"expires_at"`                                   // 过期时间
	PaidAt        *time.Time     `gorm:"index" json:"paid_at"`                                      // 支付时间
	CanceledAt    *time.Time     `gorm:"index" json:"canceled_at"`                                  // 取消时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
