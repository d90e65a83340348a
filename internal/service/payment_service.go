package service

import (
	"context"
	"strings"
	"time"

	"github.com/maison-next/internal/constants"
	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/payment/razorpay"
	"github.com/maison-next/internal/payment/wechatpay"
	"github.com/maison-next/internal/queue"
	"github.com/maison-next/internal/repository"
)

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	channelRepo repository.PaymentChannelRepository
	orderSvc    *OrderService
	queueClient *queue.Client
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, channelRepo repository.PaymentChannelRepository, orderSvc *OrderService, queueClient *queue.Client) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		channelRepo: channelRepo,
		orderSvc:    orderSvc,
		queueClient: queueClient,
	}
}

// CreatePaymentInput 创建支付请求
type CreatePaymentInput struct {
	OrderNo   string
	ChannelID uint
	ClientIP  string
	Context   context.Context
}

// CreatePaymentResult 创建支付结果
type CreatePaymentResult struct {
	Payment *models.Payment
	Channel *models.PaymentChannel
	// Razorpay 客户端拉起参数（仅 razorpay 渠道返回）
	GatewayOrderID string
	GatewayKeyID   string
	// 微信 Native 扫码链接（仅 wechat 渠道返回）
	QRCode string
}

// RazorpayCallbackInput Razorpay 支付完成回跳
type RazorpayCallbackInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// ListActiveChannels 获取前台可见支付渠道
func (s *PaymentService) ListActiveChannels() ([]models.PaymentChannel, error) {
	return s.channelRepo.ListActive()
}

// CreatePayment 对待支付订单发起支付
func (s *PaymentService) CreatePayment(input CreatePaymentInput) (*CreatePaymentResult, error) {
	order, err := s.orderSvc.GetPublicOrderForPayment(input.OrderNo)
	if err != nil {
		return nil, err
	}

	channel, err := s.channelRepo.GetByID(input.ChannelID)
	if err != nil {
		return nil, err
	}
	if channel == nil || !channel.IsActive {
		return nil, ErrChannelUnavailable
	}

	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}

	payment := &models.Payment{
		OrderID:         order.ID,
		ChannelID:       channel.ID,
		ProviderType:    channel.ProviderType,
		InteractionMode: channel.InteractionMode,
		Amount:          order.TotalAmount,
		Currency:        order.Currency,
		Status:          constants.PaymentStatusInitiated,
		ExpiredAt:       order.ExpiresAt,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	result := &CreatePaymentResult{Payment: payment, Channel: channel}
	switch channel.ProviderType {
	case constants.PaymentProviderRazorpay:
		err = s.applyRazorpayPayment(ctx, channel, order, payment, result)
	case constants.PaymentProviderWechat:
		err = s.applyWechatPayment(ctx, channel, order, payment, result, input.ClientIP)
	default:
		err = ErrChannelUnavailable
	}
	if err != nil {
		payment.Status = constants.PaymentStatusFailed
		if updateErr := s.paymentRepo.Update(payment); updateErr != nil {
			logger.Errorw("payment_mark_failed_error",
				"payment_id", payment.ID,
				"error", updateErr,
			)
		}
		return nil, err
	}

	payment.Status = constants.PaymentStatusPending
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return result, nil
}

// HandleRazorpayCallback 处理 Razorpay 支付完成回跳
// 验签通过即落账；重复回调幂等返回。
func (s *PaymentService) HandleRazorpayCallback(input RazorpayCallbackInput) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByProviderRef(constants.PaymentProviderRazorpay, strings.TrimSpace(input.GatewayOrderID))
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	if payment.Status == constants.PaymentStatusSuccess {
		return payment, nil
	}
	if payment.Status != constants.PaymentStatusPending && payment.Status != constants.PaymentStatusInitiated {
		return nil, ErrPaymentStateInvalid
	}

	channel, err := s.channelRepo.GetByID(payment.ChannelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelUnavailable
	}
	cfg, err := razorpay.ParseConfig(channel.ConfigJSON)
	if err != nil {
		return nil, ErrChannelConfigBad
	}
	if err := razorpay.VerifyPaymentSignature(cfg, &razorpay.CallbackData{
		GatewayOrderID:   input.GatewayOrderID,
		GatewayPaymentID: input.GatewayPaymentID,
		Signature:        input.Signature,
	}); err != nil {
		return nil, err
	}

	return s.settlePayment(payment, input.GatewayPaymentID, models.JSON{
		"razorpay_order_id":   input.GatewayOrderID,
		"razorpay_payment_id": input.GatewayPaymentID,
	})
}

// HandleWechatWebhook 处理微信支付回调
func (s *PaymentService) HandleWechatWebhook(ctx context.Context, channelID uint, headers map[string]string, body []byte) (*models.Payment, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil || channel.ProviderType != constants.PaymentProviderWechat {
		return nil, ErrChannelUnavailable
	}
	cfg, err := wechatpay.ParseConfig(channel.ConfigJSON)
	if err != nil {
		return nil, ErrChannelConfigBad
	}

	result, err := wechatpay.VerifyAndDecodeWebhook(ctx, cfg, headers, body)
	if err != nil {
		return nil, err
	}

	paymentID, ok := wechatpay.ParsePaymentIDFromAttach(result.Attach)
	if !ok {
		return nil, ErrNotFound
	}
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	if payment.Status == constants.PaymentStatusSuccess {
		return payment, nil
	}
	if result.Status != constants.PaymentStatusSuccess {
		return payment, nil
	}
	if err := checkWebhookAmount(result.Amount, result.Currency, payment); err != nil {
		return nil, err
	}

	return s.settlePayment(payment, result.TransactionID, models.JSON(result.Raw))
}

// checkWebhookAmount 币种与金额独立比对，任一不符即拒绝落账
// 币种不一致时不得放过金额校验。
func checkWebhookAmount(amount, currency string, payment *models.Payment) error {
	if currency != "" && !strings.EqualFold(currency, payment.Currency) {
		return ErrAmountMismatch
	}
	if amount != "" && amount != payment.Amount.String() {
		return ErrAmountMismatch
	}
	return nil
}

// ListPayments 后台支付列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}

// GetPayment 后台支付详情
func (s *PaymentService) GetPayment(id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	return payment, nil
}

// ChannelInput 创建/更新支付渠道输入
type ChannelInput struct {
	Name            string
	ProviderType    string
	InteractionMode string
	ConfigJSON      map[string]interface{}
	IsActive        *bool
	SortOrder       int
}

// ListChannels 后台渠道列表
func (s *PaymentService) ListChannels(filter repository.PaymentChannelListFilter) ([]models.PaymentChannel, int64, error) {
	return s.channelRepo.List(filter)
}

// GetChannel 后台渠道详情
func (s *PaymentService) GetChannel(id uint) (*models.PaymentChannel, error) {
	channel, err := s.channelRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrNotFound
	}
	return channel, nil
}

// CreateChannel 创建支付渠道
func (s *PaymentService) CreateChannel(input ChannelInput) (*models.PaymentChannel, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	channel := &models.PaymentChannel{
		Name:            strings.TrimSpace(input.Name),
		ProviderType:    strings.ToLower(strings.TrimSpace(input.ProviderType)),
		InteractionMode: normalizeInteractionMode(input.InteractionMode),
		ConfigJSON:      models.JSON(input.ConfigJSON),
		IsActive:        isActive,
		SortOrder:       input.SortOrder,
	}
	if err := s.ValidateChannel(channel); err != nil {
		return nil, err
	}
	if err := s.channelRepo.Create(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// UpdateChannel 更新支付渠道
func (s *PaymentService) UpdateChannel(id uint, input ChannelInput) (*models.PaymentChannel, error) {
	channel, err := s.GetChannel(id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		channel.Name = name
	}
	if provider := strings.ToLower(strings.TrimSpace(input.ProviderType)); provider != "" {
		channel.ProviderType = provider
	}
	if mode := strings.TrimSpace(input.InteractionMode); mode != "" {
		channel.InteractionMode = normalizeInteractionMode(mode)
	}
	if input.ConfigJSON != nil {
		channel.ConfigJSON = models.JSON(input.ConfigJSON)
	}
	if input.IsActive != nil {
		channel.IsActive = *input.IsActive
	}
	channel.SortOrder = input.SortOrder

	if err := s.ValidateChannel(channel); err != nil {
		return nil, err
	}
	if err := s.channelRepo.Update(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// DeleteChannel 删除支付渠道
func (s *PaymentService) DeleteChannel(id uint) error {
	if _, err := s.GetChannel(id); err != nil {
		return err
	}
	return s.channelRepo.Delete(id)
}

func normalizeInteractionMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case constants.PaymentInteractionRedirect:
		return constants.PaymentInteractionRedirect
	case constants.PaymentInteractionPage:
		return constants.PaymentInteractionPage
	default:
		return constants.PaymentInteractionQR
	}
}

// ValidateChannel 校验渠道配置可用
func (s *PaymentService) ValidateChannel(channel *models.PaymentChannel) error {
	if channel == nil {
		return ErrChannelUnavailable
	}
	switch channel.ProviderType {
	case constants.PaymentProviderRazorpay:
		cfg, err := razorpay.ParseConfig(channel.ConfigJSON)
		if err != nil {
			return ErrChannelConfigBad
		}
		if err := razorpay.ValidateConfig(cfg); err != nil {
			return ErrChannelConfigBad
		}
	case constants.PaymentProviderWechat:
		cfg, err := wechatpay.ParseConfig(channel.ConfigJSON)
		if err != nil {
			return ErrChannelConfigBad
		}
		if err := wechatpay.ValidateConfig(cfg); err != nil {
			return ErrChannelConfigBad
		}
	default:
		return ErrChannelConfigBad
	}
	return nil
}

func (s *PaymentService) applyRazorpayPayment(ctx context.Context, channel *models.PaymentChannel, order *models.Order, payment *models.Payment, result *CreatePaymentResult) error {
	cfg, err := razorpay.ParseConfig(channel.ConfigJSON)
	if err != nil {
		return ErrChannelConfigBad
	}
	created, err := razorpay.CreateOrder(ctx, cfg, razorpay.CreateInput{
		OrderNo:  order.OrderNo,
		Amount:   order.TotalAmount.String(),
		Currency: order.Currency,
		Notes: map[string]string{
			"order_no": order.OrderNo,
		},
	})
	if err != nil {
		return err
	}
	payment.ProviderRef = created.GatewayOrderID
	payment.ProviderPayload = models.JSON(created.Raw)
	result.GatewayOrderID = created.GatewayOrderID
	result.GatewayKeyID = cfg.KeyID
	return nil
}

func (s *PaymentService) applyWechatPayment(ctx context.Context, channel *models.PaymentChannel, order *models.Order, payment *models.Payment, result *CreatePaymentResult, clientIP string) error {
	cfg, err := wechatpay.ParseConfig(channel.ConfigJSON)
	if err != nil {
		return ErrChannelConfigBad
	}
	created, err := wechatpay.CreateNativePayment(ctx, cfg, wechatpay.CreateInput{
		OrderNo:     order.OrderNo,
		PaymentID:   payment.ID,
		Amount:      order.TotalAmount.String(),
		Description: "Maison order " + order.OrderNo,
		ClientIP:    clientIP,
	})
	if err != nil {
		return err
	}
	payment.PayURL = created.QRCode
	payment.ProviderPayload = models.JSON(created.Raw)
	result.QRCode = created.QRCode
	return nil
}

// settlePayment 落账：支付成功 + 订单推进 + 发货通知入队
func (s *PaymentService) settlePayment(payment *models.Payment, providerRef string, payload models.JSON) (*models.Payment, error) {
	now := time.Now()
	payment.Status = constants.PaymentStatusSuccess
	if providerRef != "" && payment.ProviderType == constants.PaymentProviderWechat {
		payment.ProviderRef = providerRef
	}
	payment.ProviderPayload = payload
	payment.PaidAt = &now
	payment.CallbackAt = &now
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}

	order, err := s.orderSvc.MarkPaid(payment.OrderID, now)
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueOrderNotify(queue.OrderNotifyPayload{
		OrderID: order.ID,
		Status:  order.Status,
		Channel: constants.NotifyChannelSMS,
	}); err != nil {
		logger.Warnw("payment_notify_enqueue_failed",
			"payment_id", payment.ID,
			"order_id", order.ID,
			"error", err,
		)
	}
	return payment, nil
}
