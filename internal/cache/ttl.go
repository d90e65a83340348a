package cache

import (
	"sync"
	"time"
)

// TTLEntry 进程内重验证缓存：显式记录拉取时间与 TTL，
// 读取时按时间比较判定是否过期，过期后由调用方刷新。
type TTLEntry[T any] struct {
	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	ttl       time.Duration
}

// NewTTLEntry 创建重验证缓存
func NewTTLEntry[T any](ttl time.Duration) *TTLEntry[T] {
	return &TTLEntry[T]{ttl: ttl}
}

// Get 读取缓存值；第二个返回值表示值是否仍然新鲜
func (e *TTLEntry[T]) Get(now time.Time) (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fetchedAt.IsZero() || e.ttl <= 0 || now.Sub(e.fetchedAt) >= e.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set 写入缓存值并记录拉取时间
func (e *TTLEntry[T]) Set(value T, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
	e.fetchedAt = now
}

// Invalidate 使缓存立即过期
func (e *TTLEntry[T]) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fetchedAt = time.Time{}
}
