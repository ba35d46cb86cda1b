package xwlru

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/omeyang/xwcache/pkg/observability/xlog"
)

// Cache 是按权重淘汰的 LRU 缓存。
// 必须通过 [New] 创建，零值不可用。
//
// 每个公开方法都在一次 Lock/Unlock 临界区内完成，索引、最近使用序列与
// 权重计数作为一个整体受保护。默认使用 *sync.Mutex，可通过 [WithLocker]
// 替换为 [NoLock]。
type Cache[K comparable, V any] struct {
	mu      sync.Locker
	store   *recency[K, V]
	cfg     Config
	weight  uint64
	stats   Stats
	metrics *Metrics

	onInsert  Hook[K, V]
	onRemove  Hook[K, V]
	insertCtx context.Context
	removeCtx context.Context
	clone     func(V) V
	logger    xlog.Logger
}

// New 创建新的缓存。
// 配置非法时返回 ErrInvalidConfig；指标注册失败时返回对应错误。
func New[K comparable, V any](cfg Config, opts ...Option[K, V]) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions[K, V]()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.locker == nil {
		o.locker = &sync.Mutex{}
	}

	store, err := newRecency[K, V]()
	if err != nil {
		return nil, fmt.Errorf("xwlru: create store: %w", err)
	}

	metrics, err := NewMetrics(o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("xwlru: create metrics: %w", err)
	}

	return &Cache[K, V]{
		mu:        o.locker,
		store:     store,
		cfg:       cfg,
		metrics:   metrics,
		onInsert:  o.onInsert,
		onRemove:  o.onRemove,
		insertCtx: o.insertCtx,
		removeCtx: o.removeCtx,
		clone:     o.clone,
		logger:    o.logger,
	}, nil
}

// Set 写入或更新条目，插入回调收到默认插入 ctx。
//
//   - 新键：weight 超过硬上限时返回 ErrOversizedEntry
//   - 已有键：权重增量超过剩余空间时返回 ErrOversizedEntry
//   - 成功后条目位于队首，随后执行裁剪并触发插入回调
//
// 回调失败时返回 ErrCallbackFailed，此时写入已经生效。
func (c *Cache[K, V]) Set(key K, value V, weight uint64) error {
	return c.set(c.insertCtx, key, value, weight)
}

// SetWithContext 与 Set 相同，但插入回调收到调用点传入的 ctx。
// ctx 为 nil 时退回默认插入 ctx。
func (c *Cache[K, V]) SetWithContext(ctx context.Context, key K, value V, weight uint64) error {
	if ctx == nil {
		ctx = c.insertCtx
	}
	return c.set(ctx, key, value, weight)
}

func (c *Cache[K, V]) set(ctx context.Context, key K, value V, weight uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, exists := c.store.lookup(key)
	if err := c.admit(old, exists, weight); err != nil {
		c.stats.Rejections++
		c.metrics.RecordRejection(ctx)
		if c.logger != nil {
			c.logger.Debug(ctx, "xwlru: entry rejected",
				slog.Uint64("weight", weight),
				slog.Uint64("total_weight", c.weight),
				slog.Uint64("hard_limit", c.cfg.HardLimit()),
			)
		}
		return err
	}

	value = c.copyValue(value)
	c.store.put(key, item[V]{value: value, weight: weight})
	if exists {
		c.weight = c.weight - old.weight + weight
		c.stats.Updates++
	} else {
		c.weight += weight
		c.stats.Inserts++
	}
	c.metrics.RecordInsert(ctx, exists, clampInt64(weight)-clampInt64(old.weight))

	pruneErr := c.prune(&key)

	insertErr := c.dispatch(ctx, hookInsert, c.onInsert, Entry[K, V]{
		Key:    key,
		Value:  c.copyValue(value),
		Weight: weight,
	})
	return errors.Join(pruneErr, insertErr)
}

// Get 返回键对应的值并将条目移到队首。
// 键不存在时返回 ErrKeyNotFound。
func (c *Cache[K, V]) Get(key K) (V, error) {
	value, ok := c.TryGet(key)
	if !ok {
		return value, ErrKeyNotFound
	}
	return value, nil
}

// TryGet 是 Get 的不报错版本：键不存在时返回零值和 false。
func (c *Cache[K, V]) TryGet(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.store.touch(key)
	c.metrics.RecordRequest(context.Background(), ok)
	if !ok {
		c.stats.Misses++
		return value, false
	}
	c.stats.Hits++
	return c.copyValue(it.value), true
}

// Peek 获取值但不更新最近使用顺序，也不计入命中统计。
func (c *Cache[K, V]) Peek(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.store.lookup(key)
	if !ok {
		return value, false
	}
	return c.copyValue(it.value), true
}

// Delete 删除条目并触发移除回调。
// 返回 true 表示键存在并已删除；键不存在时返回 false 和 nil。
// 回调失败时返回 (true, ErrCallbackFailed)，删除已经生效。
func (c *Cache[K, V]) Delete(key K) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.store.remove(key)
	if !ok {
		return false, nil
	}
	c.weight -= it.weight
	c.stats.Removals++
	c.metrics.RecordRemoval(c.removeCtx, false, it.weight)

	return true, c.dispatch(c.removeCtx, hookRemove, c.onRemove, Entry[K, V]{
		Key:    key,
		Value:  c.copyValue(it.value),
		Weight: it.weight,
	})
}

// Contains 检查键是否存在，不改变顺序与统计。
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.store.lookup(key)
	return ok
}

// Len 返回条目数。
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len()
}

// Empty 报告缓存是否为空。
func (c *Cache[K, V]) Empty() bool {
	return c.Len() == 0
}

// Weight 返回当前总权重。
func (c *Cache[K, V]) Weight() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weight
}

// SoftLimit 返回软上限。
func (c *Cache[K, V]) SoftLimit() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.SoftLimit
}

// Slack 返回弹性空间。
func (c *Cache[K, V]) Slack() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Slack
}

// HardLimit 返回硬上限；不限容量时为 math.MaxUint64。
func (c *Cache[K, V]) HardLimit() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.HardLimit()
}

// FreeWeight 返回距离硬上限的剩余权重。
func (c *Cache[K, V]) FreeWeight() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.free()
}

// Stats 返回计数器快照。
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Clear 清空所有条目，不触发移除回调。
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.RecordClear(c.removeCtx, c.weight)
	c.store.purge()
	c.weight = 0
}

// Resize 更新软上限与弹性空间，并立即按新上限执行裁剪。
// 配置非法时返回 ErrInvalidConfig 且不做任何修改；
// 裁剪中回调失败时返回 ErrCallbackFailed，新上限与裁剪均已生效。
func (c *Cache[K, V]) Resize(softLimit, slack uint64) error {
	cfg := Config{SoftLimit: softLimit, Slack: slack}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg = cfg
	if c.logger != nil {
		c.logger.Info(c.removeCtx, "xwlru: limits updated",
			slog.Uint64("soft_limit", softLimit),
			slog.Uint64("slack", slack),
			slog.Uint64("total_weight", c.weight),
		)
	}
	return c.prune(nil)
}

// Walk 在锁内从队首（最近使用）到队尾遍历条目，fn 返回 false 时停止。
// 遍历是只读的，不改变顺序。fn 中严禁调用同一 Cache 的方法。
func (c *Cache[K, V]) Walk(fn func(e Entry[K, V]) bool) {
	if fn == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.walk(func(key K, it item[V]) bool {
		return fn(Entry[K, V]{Key: key, Value: c.copyValue(it.value), Weight: it.weight})
	})
}

// Keys 返回从最近使用到最久未使用排列的键快照。
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.store.len())
	c.store.walk(func(key K, _ item[V]) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// copyValue 在设置了 clone 时返回值的拷贝。
func (c *Cache[K, V]) copyValue(v V) V {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}
