package cart

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/maison-next/internal/models"

	"github.com/shopspring/decimal"
)

func testProduct(id uint, price string) Product {
	return Product{
		ID:    id,
		Name:  fmt.Sprintf("product-%d", id),
		Price: models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
	}
}

func TestAddToCartMergesSameProduct(t *testing.T) {
	store := NewStore("cart:test", NewMemoryStorage())

	store.AddToCart(testProduct(1, "1200.00"), 2, nil)
	store.AddToCart(testProduct(1, "1200.00"), 3, nil)

	snap := store.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("expected 1 line item, got: %d", len(snap.Items))
	}
	if snap.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got: %d", snap.Items[0].Quantity)
	}
}

func TestAddToCartDefaultsQuantityAndVariant(t *testing.T) {
	store := NewStore("cart:test", NewMemoryStorage())
	product := testProduct(7, "820.00")
	product.Variants = []Variant{{Name: "Noir", Value: "#1a1a1a"}, {Name: "Ivory", Value: "#f4f1ea"}}

	store.AddToCart(product, 0, nil)

	snap := store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 1 {
		t.Fatalf("expected single item with quantity 1, got: %+v", snap.Items)
	}
	if snap.Items[0].SelectedVariant == nil || snap.Items[0].SelectedVariant.Name != "Noir" {
		t.Fatalf("expected first variant selected by default, got: %+v", snap.Items[0].SelectedVariant)
	}
}

func TestAddToCartRejectsProductWithoutID(t *testing.T) {
	store := NewStore("cart:test", NewMemoryStorage())
	store.AddToCart(Product{Name: "no-id"}, 1, nil)
	if snap := store.Snapshot(); !snap.IsEmpty {
		t.Fatalf("expected empty cart, got: %+v", snap.Items)
	}
}

func TestSnapshotTotalsAlwaysDerived(t *testing.T) {
	store := NewStore("cart:test", NewMemoryStorage())
	store.AddToCart(testProduct(1, "100.50"), 2, nil)
	store.AddToCart(testProduct(2, "49.50"), 1, nil)

	snap := store.Snapshot()
	if snap.TotalItems != 3 {
		t.Fatalf("expected total items 3, got: %d", snap.TotalItems)
	}
	if snap.Subtotal.String() != "250.50" {
		t.Fatalf("expected subtotal 250.50, got: %s", snap.Subtotal.String())
	}

	store.UpdateQuantity(1, 1)
	snap = store.Snapshot()
	if snap.TotalItems != 2 {
		t.Fatalf("expected total items 2 after update, got: %d", snap.TotalItems)
	}
	if snap.Subtotal.String() != "150.00" {
		t.Fatalf("expected subtotal 150.00 after update, got: %s", snap.Subtotal.String())
	}
}

func TestUpdateQuantityZeroOrNegativeRemovesLine(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		store := NewStore("cart:test", NewMemoryStorage())
		store.AddToCart(testProduct(3, "10.00"), 2, nil)
		store.UpdateQuantity(3, quantity)
		snap := store.Snapshot()
		if len(snap.Items) != 0 || !snap.IsEmpty {
			t.Fatalf("quantity %d: expected item removed, got: %+v", quantity, snap.Items)
		}
		if store.GetItemQuantity(3) != 0 {
			t.Fatalf("quantity %d: expected GetItemQuantity 0", quantity)
		}
	}
}

func TestRemoveFromCartMissingIsNoop(t *testing.T) {
	store := NewStore("cart:test", NewMemoryStorage())
	store.AddToCart(testProduct(1, "5.00"), 1, nil)

	before := store.Snapshot()
	store.RemoveFromCart(999)
	after := store.Snapshot()

	if len(after.Items) != len(before.Items) || after.TotalItems != before.TotalItems {
		t.Fatalf("expected no-op removal, before: %+v after: %+v", before, after)
	}
}

func TestGetItemQuantityMissingReturnsZero(t *testing.T) {
	store := NewStore("cart:test", NewMemoryStorage())
	if got := store.GetItemQuantity(42); got != 0 {
		t.Fatalf("expected 0 for missing product, got: %d", got)
	}
}

func TestClearCart(t *testing.T) {
	store := NewStore("cart:test", NewMemoryStorage())
	store.AddToCart(testProduct(1, "5.00"), 2, nil)
	store.AddToCart(testProduct(2, "7.00"), 1, nil)

	store.ClearCart()

	snap := store.Snapshot()
	if !snap.IsEmpty || snap.TotalItems != 0 || !snap.Subtotal.Decimal.IsZero() {
		t.Fatalf("expected empty cart after clear, got: %+v", snap)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore("cart:session", storage)
	store.AddToCart(testProduct(1, "1200.00"), 2, nil)
	store.AddToCart(testProduct(2, "450.00"), 1, &Variant{Name: "Gold", Value: "#c9a227"})

	rehydrated := NewStore("cart:session", storage)
	snap := rehydrated.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 items after rehydration, got: %d", len(snap.Items))
	}
	if rehydrated.GetItemQuantity(1) != 2 || rehydrated.GetItemQuantity(2) != 1 {
		t.Fatalf("rehydrated quantities mismatch: %+v", snap.Items)
	}
	if snap.Items[1].SelectedVariant == nil || snap.Items[1].SelectedVariant.Name != "Gold" {
		t.Fatalf("expected selected variant to survive rehydration, got: %+v", snap.Items[1].SelectedVariant)
	}
	if snap.Subtotal.String() != "2850.00" {
		t.Fatalf("expected subtotal 2850.00, got: %s", snap.Subtotal.String())
	}
}

func TestCorruptPersistedEntryDropped(t *testing.T) {
	storage := NewMemoryStorage()
	if err := storage.Set("cart:bad", "{not json"); err != nil {
		t.Fatalf("seed corrupt entry failed: %v", err)
	}

	store := NewStore("cart:bad", storage)
	if snap := store.Snapshot(); !snap.IsEmpty {
		t.Fatalf("expected empty cart from corrupt entry, got: %+v", snap.Items)
	}
	if _, ok, _ := storage.Get("cart:bad"); ok {
		t.Fatalf("expected corrupt entry removed from storage")
	}
}

func TestMalformedPersistedItemsFiltered(t *testing.T) {
	storage := NewMemoryStorage()
	raw := `[
		{"product":{"id":1,"name":"ok","price":"10.00"},"quantity":2},
		{"product":{"id":0,"name":"no-id","price":"5.00"},"quantity":1},
		{"product":{"id":2,"name":"zero-qty","price":"5.00"},"quantity":0},
		{"product":{"id":3,"name":"negative-price","price":"-1.00"},"quantity":1}
	]`
	if err := storage.Set("cart:mixed", raw); err != nil {
		t.Fatalf("seed entry failed: %v", err)
	}

	store := NewStore("cart:mixed", storage)
	snap := store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Product.ID != 1 {
		t.Fatalf("expected only the valid item to survive, got: %+v", snap.Items)
	}
}

type failingStorage struct {
	data map[string]string
}

func (s *failingStorage) Get(key string) (string, bool, error) {
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *failingStorage) Set(string, string) error {
	return errors.New("quota exceeded")
}

func (s *failingStorage) Remove(string) error {
	return errors.New("storage unavailable")
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	store := NewStore("cart:broken", &failingStorage{data: map[string]string{}})

	store.AddToCart(testProduct(1, "99.00"), 2, nil)

	snap := store.Snapshot()
	if snap.TotalItems != 2 {
		t.Fatalf("expected in-memory mutation to survive persist failure, got: %+v", snap)
	}
}

func TestScenarioFromSpecification(t *testing.T) {
	store := NewStore("cart:scenario", NewMemoryStorage())
	productA := testProduct(10, "100.00")
	productB := testProduct(20, "50.00")

	store.AddToCart(productA, 2, nil)
	snap := store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 2 {
		t.Fatalf("step 1: expected 1 item quantity 2, got: %+v", snap.Items)
	}

	store.AddToCart(productA, 3, nil)
	snap = store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 5 {
		t.Fatalf("step 2: expected 1 item quantity 5, got: %+v", snap.Items)
	}

	store.AddToCart(productB, 1, nil)
	snap = store.Snapshot()
	if len(snap.Items) != 2 || snap.TotalItems != 6 {
		t.Fatalf("step 3: expected 2 items totalItems 6, got: %+v", snap)
	}

	store.UpdateQuantity(productA.ID, 0)
	snap = store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Product.ID != productB.ID || snap.TotalItems != 1 {
		t.Fatalf("step 4: expected only product B with totalItems 1, got: %+v", snap)
	}
}

func TestManagerReturnsSameStorePerSession(t *testing.T) {
	manager := NewManager(NewMemoryStorage(), "cart")
	first := manager.Store("session-a")
	second := manager.Store("session-a")
	other := manager.Store("session-b")

	if first != second {
		t.Fatalf("expected same store for same session")
	}
	if first == other {
		t.Fatalf("expected distinct stores per session")
	}

	first.AddToCart(testProduct(1, "10.00"), 1, nil)
	if !other.Snapshot().IsEmpty {
		t.Fatalf("expected session isolation")
	}
}

func TestManagerBoundsStoreCount(t *testing.T) {
	manager := NewManager(NewMemoryStorage(), "cart")
	manager.maxStores = 2

	for i := 0; i < 10; i++ {
		manager.Store(fmt.Sprintf("session-%d", i))
	}
	if len(manager.stores) > 2 {
		t.Fatalf("expected at most 2 cached stores, got %d", len(manager.stores))
	}
}

func TestManagerSweepsIdleStores(t *testing.T) {
	manager := NewManager(NewMemoryStorage(), "cart")
	manager.Store("session-idle")
	manager.Store("session-live")

	// 模拟一个超过空闲阈值的会话
	manager.stores["session-idle"].lastSeen = time.Now().Add(-manager.idleTTL - time.Minute)
	manager.lastSweep = time.Time{}

	manager.Store("session-live")
	if _, ok := manager.stores["session-idle"]; ok {
		t.Fatalf("expected idle session to be evicted")
	}
	if _, ok := manager.stores["session-live"]; !ok {
		t.Fatalf("expected live session to survive sweep")
	}
}

func TestManagerEvictionRebuildsFromStorage(t *testing.T) {
	manager := NewManager(NewMemoryStorage(), "cart")
	manager.Store("session-a").AddToCart(testProduct(7, "25.00"), 2, nil)

	manager.Evict("session-a")

	snap := manager.Store("session-a").Snapshot()
	if snap.IsEmpty || snap.TotalItems != 2 || snap.Items[0].Product.ID != 7 {
		t.Fatalf("expected cart rebuilt from persisted entry, got: %+v", snap)
	}
}

func TestRapidSequentialMutationsAreNotLost(t *testing.T) {
	store := NewStore("cart:rapid", NewMemoryStorage())
	product := testProduct(5, "10.00")
	for i := 0; i < 50; i++ {
		store.AddToCart(product, 1, nil)
	}
	if got := store.GetItemQuantity(5); got != 50 {
		t.Fatalf("expected 50 accumulated adds, got: %d", got)
	}
}
