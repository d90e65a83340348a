package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/maison-next/internal/cart"
	"github.com/maison-next/internal/constants"
	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/queue"
	"github.com/maison-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	queueClient    *queue.Client
	settingService *SettingService
	currency       string
	expireMinutes  int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, queueClient *queue.Client, settingService *SettingService, currency string, expireMinutes int) *OrderService {
	if strings.TrimSpace(currency) == "" {
		currency = "INR"
	}
	if expireMinutes <= 0 {
		expireMinutes = 30
	}
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		queueClient:    queueClient,
		settingService: settingService,
		currency:       strings.ToUpper(strings.TrimSpace(currency)),
		expireMinutes:  expireMinutes,
	}
}

// CheckoutInput 购物车结算输入
type CheckoutInput struct {
	SessionID     string
	CustomerName  string
	CustomerPhone string
	ShippingAddr  string
	ClientIP      string
	NotifyChannel string
}

// Checkout 从购物车快照创建订单
// 单价以商品表当前值为准，购物车价格仅作展示；
// 库存在事务内条件扣减，不足即整单失败。
func (s *OrderService) Checkout(snapshot cart.Snapshot, input CheckoutInput) (*models.Order, error) {
	if snapshot.IsEmpty || len(snapshot.Items) == 0 {
		return nil, ErrCartEmpty
	}
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.CustomerPhone) == "" ||
		strings.TrimSpace(input.ShippingAddr) == "" {
		return nil, ErrOrderStateInvalid
	}

	expireMinutes := s.resolveExpireMinutes()
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireMinutes) * time.Minute)

	order := &models.Order{
		OrderNo:       generateOrderNo(),
		SessionID:     strings.TrimSpace(input.SessionID),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		ShippingAddr:  strings.TrimSpace(input.ShippingAddr),
		Status:        constants.OrderStatusPendingPayment,
		Currency:      s.currency,
		ClientIP:      strings.TrimSpace(input.ClientIP),
		ExpiresAt:     &expiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(snapshot.Items))
		for _, line := range snapshot.Items {
			product, err := productRepo.GetByID(idString(line.Product.ID))
			if err != nil {
				return err
			}
			if product == nil || !product.IsActive {
				return ErrProductInactive
			}

			ok, err := productRepo.DecrementStock(product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStockInsufficient
			}

			item := models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.PriceAmount,
				Quantity:    line.Quantity,
			}
			if line.SelectedVariant != nil {
				item.VariantName = line.SelectedVariant.Name
				item.VariantValue = line.SelectedVariant.Value
			}
			items = append(items, item)
			total = total.Add(product.PriceAmount.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order.TotalAmount = models.NewMoneyFromDecimal(total)
		order.Items = items
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
		OrderID: order.ID,
	}, time.Until(expiresAt)); err != nil {
		logger.Errorw("order_timeout_enqueue_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}

	if channel := normalizeNotifyChannel(input.NotifyChannel); channel != "" {
		if err := s.queueClient.EnqueueOrderNotify(queue.OrderNotifyPayload{
			OrderID: order.ID,
			Status:  order.Status,
			Channel: channel,
		}); err != nil {
			logger.Warnw("order_notify_enqueue_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
	}

	return s.orderRepo.GetByID(order.ID)
}

// GetPublicByOrderNo 游客按订单号 + 手机号查询订单
func (s *OrderService) GetPublicByOrderNo(orderNo, phone string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil || order.CustomerPhone != strings.TrimSpace(phone) {
		return nil, ErrNotFound
	}
	if err := s.ensureCanceledIfExpired(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetPublicOrderForPayment 获取可发起支付的订单（待支付且未过期）
func (s *OrderService) GetPublicOrderForPayment(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if err := s.ensureCanceledIfExpired(order); err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderStateInvalid
	}
	return order, nil
}

// ListForAdmin 后台订单列表
func (s *OrderService) ListForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// GetForAdmin 后台订单详情
func (s *OrderService) GetForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// UpdateStatus 后台推进订单状态
func (s *OrderService) UpdateStatus(orderID uint, targetStatus string) (*models.Order, error) {
	order, err := s.GetForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	targetStatus = strings.TrimSpace(targetStatus)
	if !isValidStatusTransition(order.Status, targetStatus) {
		return nil, ErrOrderStateInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     targetStatus,
		"updated_at": now,
	}
	switch targetStatus {
	case constants.OrderStatusPaid:
		updates["paid_at"] = now
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = now
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		updated, err := s.orderRepo.WithTx(tx).UpdateStatusFrom(orderID, order.Status, updates)
		if err != nil {
			return err
		}
		if !updated {
			return ErrOrderStateInvalid
		}
		if targetStatus == constants.OrderStatusCanceled {
			return s.restoreStock(tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(orderID)
}

// MarkPaid 支付成功时推进订单（幂等：已支付直接返回）
func (s *OrderService) MarkPaid(orderID uint, paidAt time.Time) (*models.Order, error) {
	order, err := s.GetForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == constants.OrderStatusPaid {
		return order, nil
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderStateInvalid
	}
	updates := map[string]interface{}{
		"status":     constants.OrderStatusPaid,
		"paid_at":    paidAt,
		"updated_at": time.Now(),
	}
	updated, err := s.orderRepo.UpdateStatusFrom(orderID, constants.OrderStatusPendingPayment, updates)
	if err != nil {
		return nil, err
	}
	if !updated {
		// 并发写入抢先推进了状态，重读后按幂等/冲突处理
		current, err := s.GetForAdmin(orderID)
		if err != nil {
			return nil, err
		}
		if current.Status == constants.OrderStatusPaid {
			return current, nil
		}
		return nil, ErrOrderStateInvalid
	}
	return s.orderRepo.GetByID(orderID)
}

// CancelExpiredOrder 超时取消（仅针对仍在待支付且已过期的订单）
func (s *OrderService) CancelExpiredOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return order, nil
	}
	if order.ExpiresAt == nil || time.Now().Before(*order.ExpiresAt) {
		return order, nil
	}

	// 状态改写与库存回补在同一事务内，且仅当订单仍待支付时生效；
	// 并发支付回调抢先落账时整体放弃，不回补库存。
	now := time.Now()
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		updated, err := s.orderRepo.WithTx(tx).UpdateStatusFrom(order.ID, constants.OrderStatusPendingPayment, map[string]interface{}{
			"status":      constants.OrderStatusCanceled,
			"canceled_at": now,
			"updated_at":  now,
		})
		if err != nil {
			return err
		}
		if !updated {
			return nil
		}
		return s.restoreStock(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

func (s *OrderService) ensureCanceledIfExpired(order *models.Order) error {
	if order.Status != constants.OrderStatusPendingPayment {
		return nil
	}
	if order.ExpiresAt == nil || time.Now().Before(*order.ExpiresAt) {
		return nil
	}
	updated, err := s.CancelExpiredOrder(order.ID)
	if err != nil {
		return err
	}
	*order = *updated
	return nil
}

// restoreStock 在取消事务内回补库存，任一失败整体回滚
func (s *OrderService) restoreStock(tx *gorm.DB, order *models.Order) error {
	productRepo := s.productRepo.WithTx(tx)
	for _, item := range order.Items {
		if err := productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) resolveExpireMinutes() int {
	minutes, err := s.settingService.GetOrderPaymentExpireMinutes(s.expireMinutes)
	if err != nil {
		logger.Warnw("order_expire_setting_read_failed", "error", err)
		return s.expireMinutes
	}
	return minutes
}

// isValidStatusTransition 订单状态机
func isValidStatusTransition(from, to string) bool {
	switch from {
	case constants.OrderStatusPendingPayment:
		return to == constants.OrderStatusPaid || to == constants.OrderStatusCanceled
	case constants.OrderStatusPaid:
		return to == constants.OrderStatusShipped || to == constants.OrderStatusCanceled
	case constants.OrderStatusShipped:
		return to == constants.OrderStatusCompleted
	default:
		return false
	}
}

func normalizeNotifyChannel(channel string) string {
	switch strings.ToLower(strings.TrimSpace(channel)) {
	case constants.NotifyChannelSMS:
		return constants.NotifyChannelSMS
	case constants.NotifyChannelWhatsApp:
		return constants.NotifyChannelWhatsApp
	default:
		return ""
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("MN%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}
