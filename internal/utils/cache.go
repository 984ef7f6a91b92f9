package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// NewMemoryCache 创建进程内缓存
// defaultTTL 为默认过期时间，cleanup 为过期条目的清理间隔
func NewMemoryCache(defaultTTL, cleanup time.Duration) *cache.Cache {
	return cache.New(defaultTTL, cleanup)
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// TTLCache 有容量上限且带过期时间的 LRU 缓存
type TTLCache[K comparable, V any] struct {
	storage *lru.Cache[K, CacheItem[V]]
	ttl     time.Duration
}

// NewTTLCache size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) *TTLCache[K, V] {
	if size <= 0 {
		size = 1
	}
	// size > 0 时 lru.New 不会返回错误
	c, _ := lru.New[K, CacheItem[V]](size)
	return &TTLCache[K, V]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入或覆盖
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.storage.Add(key, CacheItem[V]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取，过期条目视为不存在
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.Value, true
}

// Delete 删除
func (c *TTLCache[K, V]) Delete(key K) {
	c.storage.Remove(key)
}

// Clear 清空
func (c *TTLCache[K, V]) Clear() {
	c.storage.Purge()
}

// Len 当前条数（含尚未清理的过期条目）
func (c *TTLCache[K, V]) Len() int {
	return c.storage.Len()
}
