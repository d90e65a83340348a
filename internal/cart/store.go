package cart

import (
	"encoding/json"
	"sync"

	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/models"

	"github.com/shopspring/decimal"
)

// Variant 选中变体描述（名称 + 值）
type Variant struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product 购物车持有的商品快照（外部只读数据）
type Product struct {
	ID       uint         `json:"id"`
	Name     string       `json:"name"`
	Price    models.Money `json:"price"`
	Color    string       `json:"color,omitempty"`
	Images   []string     `json:"images,omitempty"`
	Variants []Variant    `json:"variants,omitempty"`
}

// LineItem 购物车行项
// 不变量：Quantity 恒 >= 1，数量降到 0 及以下的行整体移除。
type LineItem struct {
	Product         Product  `json:"product"`
	Quantity        int      `json:"quantity"`
	SelectedVariant *Variant `json:"selected_variant,omitempty"`
}

// Snapshot 对外发布的一致性只读快照
// TotalItems 与 Subtotal 在读取时由行项重新计算，不单独存储。
type Snapshot struct {
	Items      []LineItem   `json:"items"`
	TotalItems int          `json:"total_items"`
	Subtotal   models.Money `json:"subtotal"`
	IsEmpty    bool         `json:"is_empty"`
}

// Store 单个会话的购物车状态容器
// 所有变更操作在互斥锁内针对最新内存状态执行，按调用顺序线性化；
// 内存状态是权威数据，持久化为尽力而为。
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	items   []LineItem
}

// NewStore 创建购物车并从持久化存储重建状态
func NewStore(key string, storage Storage) *Store {
	s := &Store{key: key, storage: storage}
	s.load()
	return s
}

// AddToCart 添加商品；已存在的商品累加数量而不是新增行
func (s *Store) AddToCart(product Product, quantity int, selected *Variant) {
	if product.ID == 0 {
		return
	}
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			s.persistLocked()
			return
		}
	}

	if selected == nil && len(product.Variants) > 0 {
		first := product.Variants[0]
		selected = &first
	}
	s.items = append(s.items, LineItem{
		Product:         product,
		Quantity:        quantity,
		SelectedVariant: selected,
	})
	s.persistLocked()
}

// RemoveFromCart 移除指定商品行；不存在时为空操作
func (s *Store) RemoveFromCart(productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

// UpdateQuantity 设置指定商品行数量；数量 <= 0 等价于移除
func (s *Store) UpdateQuantity(productID uint, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID)
		return
	}
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			s.persistLocked()
			return
		}
	}
}

// ClearCart 无条件清空购物车
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked()
}

// GetItemQuantity 查询指定商品数量；不在购物车时返回 0
func (s *Store) GetItemQuantity(productID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return s.items[i].Quantity
		}
	}
	return 0
}

// Snapshot 返回当前一致性快照（派生字段按行项实时计算）
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)

	totalItems := 0
	subtotal := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		lineTotal := item.Product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}
	return Snapshot{
		Items:      items,
		TotalItems: totalItems,
		Subtotal:   models.NewMoneyFromDecimal(subtotal),
		IsEmpty:    len(items) == 0,
	}
}

func (s *Store) removeLocked(productID uint) {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// load 从持久化存储重建状态；损坏的数据静默丢弃，绝不阻断购物流程
func (s *Store) load() {
	if s.storage == nil {
		return
	}
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		logger.Warnw("cart_load_failed", "key", s.key, "error", err)
		return
	}
	if !ok {
		return
	}

	var persisted []LineItem
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		// 反序列化失败：删除损坏条目，从空购物车开始
		logger.Warnw("cart_corrupt_entry_dropped", "key", s.key, "error", err)
		if removeErr := s.storage.Remove(s.key); removeErr != nil {
			logger.Warnw("cart_corrupt_entry_remove_failed", "key", s.key, "error", removeErr)
		}
		return
	}

	items := make([]LineItem, 0, len(persisted))
	for _, item := range persisted {
		if !validLineItem(item) {
			logger.Debugw("cart_malformed_item_dropped", "key", s.key, "product_id", item.Product.ID)
			continue
		}
		items = append(items, item)
	}
	s.items = items
}

// persistLocked 序列化当前状态写回存储；失败只记录日志，不回滚内存状态
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	payload, err := json.Marshal(s.items)
	if err != nil {
		logger.Warnw("cart_marshal_failed", "key", s.key, "error", err)
		return
	}
	if err := s.storage.Set(s.key, string(payload)); err != nil {
		logger.Warnw("cart_persist_failed", "key", s.key, "error", err)
	}
}

func validLineItem(item LineItem) bool {
	if item.Product.ID == 0 || item.Quantity < 1 {
		return false
	}
	return !item.Product.Price.Decimal.IsNegative()
}
