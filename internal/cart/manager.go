package cart

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// defaultMaxStores 内存实例上限；会话 ID 由客户端自报，必须有界
	defaultMaxStores = 4096
	// defaultIdleTTL 空闲实例驱逐阈值；持久化数据不受影响
	defaultIdleTTL = 30 * time.Minute
	// sweepInterval 空闲清扫的最小间隔
	sweepInterval = time.Minute
)

type storeEntry struct {
	store    *Store
	lastSeen time.Time
}

// Manager 按会话管理购物车实例
// 显式构造、依赖注入存储后端，取代模块级全局状态。
// 内存实例按空闲时间和总量驱逐，驱逐后下次访问从存储重建；
// 存活会话内的操作仍以内存状态为权威。
type Manager struct {
	mu        sync.Mutex
	storage   Storage
	prefix    string
	stores    map[string]*storeEntry
	maxStores int
	idleTTL   time.Duration
	lastSweep time.Time
}

// NewManager 创建购物车管理器
func NewManager(storage Storage, prefix string) *Manager {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "cart"
	}
	return &Manager{
		storage:   storage,
		prefix:    prefix,
		stores:    make(map[string]*storeEntry),
		maxStores: defaultMaxStores,
		idleTTL:   defaultIdleTTL,
	}
}

// Store 获取指定会话的购物车，首次访问时从存储重建
func (m *Manager) Store(sessionID string) *Store {
	sessionID = strings.TrimSpace(sessionID)
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(now)

	if entry, ok := m.stores[sessionID]; ok {
		entry.lastSeen = now
		return entry.store
	}
	store := NewStore(m.key(sessionID), m.storage)
	m.stores[sessionID] = &storeEntry{store: store, lastSeen: now}
	return store
}

// Evict 丢弃会话的内存实例（持久化数据保留）
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, strings.TrimSpace(sessionID))
}

// sweepLocked 驱逐空闲实例；超过总量上限时按最久未用逐出
// 调用方必须持有 m.mu。
func (m *Manager) sweepLocked(now time.Time) {
	overLimit := m.maxStores > 0 && len(m.stores) >= m.maxStores
	if !overLimit && now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now

	if m.idleTTL > 0 {
		for sessionID, entry := range m.stores {
			if now.Sub(entry.lastSeen) >= m.idleTTL {
				delete(m.stores, sessionID)
			}
		}
	}

	for m.maxStores > 0 && len(m.stores) >= m.maxStores {
		oldestID := ""
		var oldestSeen time.Time
		for sessionID, entry := range m.stores {
			if oldestID == "" || entry.lastSeen.Before(oldestSeen) {
				oldestID = sessionID
				oldestSeen = entry.lastSeen
			}
		}
		if oldestID == "" {
			return
		}
		delete(m.stores, oldestID)
	}
}

func (m *Manager) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", m.prefix, sessionID)
}
