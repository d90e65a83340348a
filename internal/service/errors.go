package service

import "errors"

// 业务哨兵错误，供 HTTP 层映射状态码
var (
	ErrNotFound            = errors.New("记录不存在")
	ErrSlugExists          = errors.New("标识已存在")
	ErrProductPriceInvalid = errors.New("商品价格无效")
	ErrProductInactive     = errors.New("商品已下架")
	ErrStockInsufficient   = errors.New("库存不足")
	ErrCartEmpty           = errors.New("购物车为空")
	ErrOrderStateInvalid   = errors.New("订单状态不允许该操作")
	ErrOrderExpired        = errors.New("订单已过期")
	ErrChannelUnavailable  = errors.New("支付渠道不可用")
	ErrChannelConfigBad    = errors.New("支付渠道配置无效")
	ErrPaymentStateInvalid = errors.New("支付状态不允许该操作")
	ErrAmountMismatch      = errors.New("支付金额不匹配")
	ErrInvalidCredentials  = errors.New("账号或密码错误")
	ErrInvalidPassword     = errors.New("原密码错误")
	ErrCaptchaInvalid      = errors.New("验证码错误")
	ErrCaptchaRequired     = errors.New("需要验证码")
	ErrRateLimited         = errors.New("操作过于频繁")
	ErrBannerPositionBad   = errors.New("投放位置无效")
	ErrNotifyDisabled      = errors.New("通知服务未启用")
	ErrNotifyChannelBad    = errors.New("通知渠道无效")
)
