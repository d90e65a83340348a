package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/maison-next/internal/cart"
	"github.com/maison-next/internal/constants"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/queue"
	"github.com/maison-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newOrderServiceTest(t *testing.T) (*OrderService, repository.ProductRepository, repository.OrderRepository) {
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
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	settingSvc := NewSettingService(repository.NewSettingRepository(db))
	queueClient, err := queue.NewClient(nil) // disabled
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}

	svc := NewOrderService(orderRepo, productRepo, queueClient, settingSvc, "INR", 30)
	return svc, productRepo, orderRepo
}

func seedProduct(t *testing.T, repo repository.ProductRepository, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  1,
		Slug:        strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:        name,
		PriceAmount: models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Currency:    "INR",
		Stock:       stock,
		IsActive:    true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func snapshotFor(items ...cart.LineItem) cart.Snapshot {
	total := 0
	subtotal := decimal.Zero
	for _, item := range items {
		total += item.Quantity
		subtotal = subtotal.Add(item.Product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return cart.Snapshot{
		Items:      items,
		TotalItems: total,
		Subtotal:   models.NewMoneyFromDecimal(subtotal),
		IsEmpty:    len(items) == 0,
	}
}

func checkoutInput(session string) CheckoutInput {
	return CheckoutInput{
		SessionID:     session,
		CustomerName:  "Asha Verma",
		CustomerPhone: "+919800000001",
		ShippingAddr:  "14 Marine Drive, Mumbai",
	}
}

func TestCheckoutCreatesOrderWithSnapshots(t *testing.T) {
	svc, productRepo, _ := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Silk Scarf", "1499.00", 10)

	variant := cart.Variant{Name: "Noir", Value: "#1a1a1a"}
	snapshot := snapshotFor(cart.LineItem{
		Product:         cart.Product{ID: product.ID, Name: product.Name, Price: product.PriceAmount},
		Quantity:        2,
		SelectedVariant: &variant,
	})

	order, err := svc.Checkout(snapshot, checkoutInput("sess-1"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("status want pending_payment, got %s", order.Status)
	}
	if got := order.TotalAmount.String(); got != "2998.00" {
		t.Fatalf("total want 2998.00, got %s", got)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items want 1, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.ProductName != "Silk Scarf" || item.VariantName != "Noir" || item.Quantity != 2 {
		t.Fatalf("item snapshot mismatch: %+v", item)
	}
	if order.ExpiresAt == nil || !order.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expires_at")
	}

	// 库存已扣减
	updated, err := productRepo.GetByID(idString(product.ID))
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if updated.Stock != 8 {
		t.Fatalf("stock want 8, got %d", updated.Stock)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, _ := newOrderServiceTest(t)
	if _, err := svc.Checkout(snapshotFor(), checkoutInput("sess-2")); err != ErrCartEmpty {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	svc, productRepo, orderRepo := newOrderServiceTest(t)
	rich := seedProduct(t, productRepo, "Leather Tote", "8500.00", 10)
	scarce := seedProduct(t, productRepo, "Gold Cuff", "12000.00", 1)

	snapshot := snapshotFor(
		cart.LineItem{Product: cart.Product{ID: rich.ID, Price: rich.PriceAmount}, Quantity: 1},
		cart.LineItem{Product: cart.Product{ID: scarce.ID, Price: scarce.PriceAmount}, Quantity: 3},
	)

	if _, err := svc.Checkout(snapshot, checkoutInput("sess-3")); err != ErrStockInsufficient {
		t.Fatalf("want ErrStockInsufficient, got %v", err)
	}

	// 整单回滚：第一件商品的扣减也被撤销
	reloaded, err := productRepo.GetByID(idString(rich.ID))
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 10 {
		t.Fatalf("stock want 10 after rollback, got %d", reloaded.Stock)
	}

	orders, total, err := orderRepo.List(repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 0 || len(orders) != 0 {
		t.Fatalf("expected no orders after rollback, got %d", total)
	}
}

func TestCheckoutUsesCurrentPrice(t *testing.T) {
	svc, productRepo, _ := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Satin Clutch", "5200.00", 5)

	// 购物车里是旧价，落单以商品表现价为准
	stale := cart.Product{ID: product.ID, Name: product.Name,
		Price: models.NewMoneyFromDecimal(decimal.RequireFromString("4000.00"))}
	order, err := svc.Checkout(snapshotFor(cart.LineItem{Product: stale, Quantity: 1}), checkoutInput("sess-4"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if got := order.TotalAmount.String(); got != "5200.00" {
		t.Fatalf("total want 5200.00 (current price), got %s", got)
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	svc, productRepo, _ := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Pearl Drop", "3100.00", 4)

	order, err := svc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 1,
	}), checkoutInput("sess-5"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	paidAt := time.Now()
	paid, err := svc.MarkPaid(order.ID, paidAt)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != constants.OrderStatusPaid || paid.PaidAt == nil {
		t.Fatalf("order not marked paid: %+v", paid)
	}

	again, err := svc.MarkPaid(order.ID, time.Now())
	if err != nil {
		t.Fatalf("second mark paid failed: %v", err)
	}
	if again.Status != constants.OrderStatusPaid {
		t.Fatalf("idempotent mark paid broke status: %s", again.Status)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, productRepo, _ := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Cashmere Wrap", "9900.00", 3)

	order, err := svc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 1,
	}), checkoutInput("sess-6"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// 待支付不能直接发货
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped); err != ErrOrderStateInvalid {
		t.Fatalf("want ErrOrderStateInvalid, got %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusPaid); err != nil {
		t.Fatalf("to paid failed: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped); err != nil {
		t.Fatalf("to shipped failed: %v", err)
	}
	final, err := svc.UpdateStatus(order.ID, constants.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("to completed failed: %v", err)
	}
	if final.Status != constants.OrderStatusCompleted {
		t.Fatalf("final status want completed, got %s", final.Status)
	}
}

func TestCancelExpiredOrderRestoresStock(t *testing.T) {
	svc, productRepo, orderRepo := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Velvet Loafer", "7600.00", 6)

	order, err := svc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 2,
	}), checkoutInput("sess-7"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// 人为把过期时间拨到过去
	past := time.Now().Add(-time.Minute)
	if err := orderRepo.UpdateStatus(order.ID, map[string]interface{}{"expires_at": past}); err != nil {
		t.Fatalf("force expire failed: %v", err)
	}

	canceled, err := svc.CancelExpiredOrder(order.ID)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled || canceled.CanceledAt == nil {
		t.Fatalf("order not canceled: %+v", canceled)
	}

	reloaded, err := productRepo.GetByID(idString(product.ID))
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 6 {
		t.Fatalf("stock want 6 after restore, got %d", reloaded.Stock)
	}

	// 非过期/已支付订单不受影响
	again, err := svc.CancelExpiredOrder(order.ID)
	if err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if again.Status != constants.OrderStatusCanceled {
		t.Fatalf("second cancel changed status: %s", again.Status)
	}
}

func TestUpdateStatusCancelRestoresStock(t *testing.T) {
	svc, productRepo, _ := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Opera Clutch", "6400.00", 5)

	order, err := svc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 2,
	}), checkoutInput("sess-9"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	canceled, err := svc.UpdateStatus(order.ID, constants.OrderStatusCanceled)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled || canceled.CanceledAt == nil {
		t.Fatalf("order not canceled: %+v", canceled)
	}

	reloaded, err := productRepo.GetByID(idString(product.ID))
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 5 {
		t.Fatalf("stock want 5 after cancel restore, got %d", reloaded.Stock)
	}
}

func TestCancelGuardSkipsConcurrentlyPaidOrder(t *testing.T) {
	svc, productRepo, orderRepo := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Ivory Stole", "4800.00", 8)

	order, err := svc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 3,
	}), checkoutInput("sess-10"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// 过期时间已过，但支付回调抢先落账
	past := time.Now().Add(-time.Minute)
	if err := orderRepo.UpdateStatus(order.ID, map[string]interface{}{"expires_at": past}); err != nil {
		t.Fatalf("force expire failed: %v", err)
	}
	if _, err := svc.MarkPaid(order.ID, time.Now()); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	// 状态条件不满足时改写不得生效
	now := time.Now()
	updated, err := orderRepo.UpdateStatusFrom(order.ID, constants.OrderStatusPendingPayment, map[string]interface{}{
		"status":      constants.OrderStatusCanceled,
		"canceled_at": now,
		"updated_at":  now,
	})
	if err != nil {
		t.Fatalf("guarded update failed: %v", err)
	}
	if updated {
		t.Fatalf("guarded update should not touch a paid order")
	}

	after, err := svc.CancelExpiredOrder(order.ID)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if after.Status != constants.OrderStatusPaid {
		t.Fatalf("status want paid after cancel attempt, got %s", after.Status)
	}

	// 已售出库存不得被回补
	reloaded, err := productRepo.GetByID(idString(product.ID))
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 5 {
		t.Fatalf("stock want 5 (no restore), got %d", reloaded.Stock)
	}
}

func TestGetPublicByOrderNoRequiresPhone(t *testing.T) {
	svc, productRepo, _ := newOrderServiceTest(t)
	product := seedProduct(t, productRepo, "Onyx Ring", "2100.00", 2)

	order, err := svc.Checkout(snapshotFor(cart.LineItem{
		Product: cart.Product{ID: product.ID, Price: product.PriceAmount}, Quantity: 1,
	}), checkoutInput("sess-8"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := svc.GetPublicByOrderNo(order.OrderNo, "+911234500000"); err != ErrNotFound {
		t.Fatalf("wrong phone want ErrNotFound, got %v", err)
	}
	found, err := svc.GetPublicByOrderNo(order.OrderNo, "+919800000001")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.OrderNo != order.OrderNo {
		t.Fatalf("order mismatch")
	}
}
