package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/maison-next/internal/cart"
	"github.com/maison-next/internal/constants"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/queue"
	"github.com/maison-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newPaymentServiceTest(t *testing.T) (*PaymentService, *OrderService, repository.ProductRepository, repository.PaymentRepository, repository.PaymentChannelRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductVariant{},
		&models.Order{}, &models.OrderItem{}, &models.Setting{},
		&models.Payment{}, &models.PaymentChannel{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	channelRepo := repository.NewPaymentChannelRepository(db)
	settingSvc := NewSettingService(repository.NewSettingRepository(db))
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}

	orderSvc := NewOrderService(orderRepo, productRepo, queueClient, settingSvc, "INR", 30)
	paymentSvc := NewPaymentService(paymentRepo, channelRepo, orderSvc, queueClient)
	return paymentSvc, orderSvc, productRepo, paymentRepo, channelRepo
}

func razorpayChannelInput(secret string) ChannelInput {
	return ChannelInput{
		Name:         "Razorpay",
		ProviderType: constants.PaymentProviderRazorpay,
		ConfigJSON: map[string]interface{}{
			"key_id":     "rzp_test_key",
			"key_secret": secret,
		},
	}
}

func razorpaySign(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateChannelValidatesConfig(t *testing.T) {
	svc, _, _, _, _ := newPaymentServiceTest(t)

	channel, err := svc.CreateChannel(razorpayChannelInput("secret"))
	if err != nil {
		t.Fatalf("create channel failed: %v", err)
	}
	if channel.InteractionMode != constants.PaymentInteractionQR {
		t.Fatalf("interaction mode want qr default, got %s", channel.InteractionMode)
	}

	bad := razorpayChannelInput("")
	if _, err := svc.CreateChannel(bad); err != ErrChannelConfigBad {
		t.Fatalf("missing secret want ErrChannelConfigBad, got %v", err)
	}

	unknown := razorpayChannelInput("secret")
	unknown.ProviderType = "stripe"
	if _, err := svc.CreateChannel(unknown); err != ErrChannelConfigBad {
		t.Fatalf("unknown provider want ErrChannelConfigBad, got %v", err)
	}
}

func TestHandleRazorpayCallbackSettlesOrder(t *testing.T) {
	svc, orderSvc, productRepo, paymentRepo, _ := newPaymentServiceTest(t)

	product := seedProduct(t, productRepo, "Silk Scarf", "1499.00", 5)
	order, err := orderSvc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 1,
	}), checkoutInput("sess-pay-1"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	secret := "test_secret"
	channel, err := svc.CreateChannel(razorpayChannelInput(secret))
	if err != nil {
		t.Fatalf("create channel failed: %v", err)
	}

	// 模拟已向网关下单成功的待支付记录
	payment := &models.Payment{
		OrderID:      order.ID,
		ChannelID:    channel.ID,
		ProviderType: constants.PaymentProviderRazorpay,
		Amount:       order.TotalAmount,
		Currency:     order.Currency,
		Status:       constants.PaymentStatusPending,
		ProviderRef:  "order_Nxt001",
	}
	if err := paymentRepo.Create(payment); err != nil {
		t.Fatalf("seed payment failed: %v", err)
	}

	badSig := RazorpayCallbackInput{
		GatewayOrderID:   "order_Nxt001",
		GatewayPaymentID: "pay_Nxt001",
		Signature:        razorpaySign("wrong", "order_Nxt001", "pay_Nxt001"),
	}
	if _, err := svc.HandleRazorpayCallback(badSig); err == nil {
		t.Fatalf("tampered signature should fail")
	}

	settled, err := svc.HandleRazorpayCallback(RazorpayCallbackInput{
		GatewayOrderID:   "order_Nxt001",
		GatewayPaymentID: "pay_Nxt001",
		Signature:        razorpaySign(secret, "order_Nxt001", "pay_Nxt001"),
	})
	if err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if settled.Status != constants.PaymentStatusSuccess || settled.PaidAt == nil {
		t.Fatalf("payment not settled: %+v", settled)
	}

	paidOrder, err := orderSvc.GetForAdmin(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if paidOrder.Status != constants.OrderStatusPaid {
		t.Fatalf("order status want paid, got %s", paidOrder.Status)
	}

	// 重复回调幂等
	again, err := svc.HandleRazorpayCallback(RazorpayCallbackInput{
		GatewayOrderID:   "order_Nxt001",
		GatewayPaymentID: "pay_Nxt001",
		Signature:        razorpaySign(secret, "order_Nxt001", "pay_Nxt001"),
	})
	if err != nil {
		t.Fatalf("repeat callback failed: %v", err)
	}
	if again.Status != constants.PaymentStatusSuccess {
		t.Fatalf("repeat callback changed status: %s", again.Status)
	}
}

func TestCheckWebhookAmountGuard(t *testing.T) {
	payment := &models.Payment{
		Amount:   models.NewMoneyFromDecimal(decimal.RequireFromString("2998.00")),
		Currency: "INR",
	}

	if err := checkWebhookAmount("2998.00", "INR", payment); err != nil {
		t.Fatalf("matching amount and currency should pass, got %v", err)
	}
	if err := checkWebhookAmount("", "", payment); err != nil {
		t.Fatalf("webhook without amount fields should pass, got %v", err)
	}
	if err := checkWebhookAmount("2998.00", "USD", payment); err != ErrAmountMismatch {
		t.Fatalf("currency mismatch want ErrAmountMismatch, got %v", err)
	}
	if err := checkWebhookAmount("1.00", "INR", payment); err != ErrAmountMismatch {
		t.Fatalf("amount mismatch want ErrAmountMismatch, got %v", err)
	}
	// 币种缺失时金额仍需校验
	if err := checkWebhookAmount("1.00", "", payment); err != ErrAmountMismatch {
		t.Fatalf("amount mismatch without currency want ErrAmountMismatch, got %v", err)
	}
}

func TestCreatePaymentRejectsInactiveChannel(t *testing.T) {
	svc, orderSvc, productRepo, _, channelRepo := newPaymentServiceTest(t)

	product := seedProduct(t, productRepo, "Leather Tote", "8500.00", 5)
	order, err := orderSvc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 1,
	}), checkoutInput("sess-pay-2"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	channel, err := svc.CreateChannel(razorpayChannelInput("secret"))
	if err != nil {
		t.Fatalf("create channel failed: %v", err)
	}
	channel.IsActive = false
	if err := channelRepo.Update(channel); err != nil {
		t.Fatalf("deactivate channel failed: %v", err)
	}

	_, err = svc.CreatePayment(CreatePaymentInput{OrderNo: order.OrderNo, ChannelID: channel.ID})
	if err != ErrChannelUnavailable {
		t.Fatalf("want ErrChannelUnavailable, got %v", err)
	}
}
