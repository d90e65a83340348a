package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusShipped        = "shipped"
	OrderStatusCompleted      = "completed"
	OrderStatusCanceled       = "canceled"
)

// 支付状态常量
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
)

// 支付提供方常量
const (
	PaymentProviderRazorpay = "razorpay"
	PaymentProviderWechat   = "wechat"
)

// 支付交互方式常量
const (
	PaymentInteractionQR       = "qr"
	PaymentInteractionRedirect = "redirect"
	PaymentInteractionPage     = "page"
)

// 通知渠道常量
const (
	NotifyChannelSMS      = "sms"
	NotifyChannelWhatsApp = "whatsapp"
)

// Banner 投放位置常量
const (
	BannerPositionHome       = "home"
	BannerPositionCollection = "collection"
	BannerPositionCheckout   = "checkout"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 队列任务类型常量
const (
	TaskOrderNotify        = "order:notify"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)

// 系统设置键常量
const (
	SettingKeySiteConfig   = "site_config"
	SettingKeyOrderConfig  = "order_config"
	SettingKeyNotifyConfig = "notify_config"
)

// 订单设置字段常量
const (
	SettingFieldPaymentExpireMinutes = "payment_expire_minutes"
)
