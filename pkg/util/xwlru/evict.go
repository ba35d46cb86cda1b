package xwlru

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// admit 检查一次写入能否放入缓存，调用前必须持有锁。
//
//   - 总权重不得溢出 uint64（不限容量时这是唯一的限制）
//   - 新键：weight 不得超过硬上限（空缓存也放不下的条目直接拒绝）
//   - 已有键：权重减小总是允许；增大时增量不得超过剩余空间
func (c *Cache[K, V]) admit(old item[V], exists bool, weight uint64) error {
	if exists && weight <= old.weight {
		return nil
	}
	growth := weight
	if exists {
		growth = weight - old.weight
	}
	if growth > math.MaxUint64-c.weight {
		return fmt.Errorf("%w: weight %d overflows total weight %d", ErrOversizedEntry, weight, c.weight)
	}
	if c.cfg.Unbounded() {
		return nil
	}

	if !exists {
		if hard := c.cfg.HardLimit(); weight > hard {
			return fmt.Errorf("%w: weight %d > hard limit %d", ErrOversizedEntry, weight, hard)
		}
		return nil
	}
	if free := c.free(); growth > free {
		return fmt.Errorf("%w: weight delta %d > free weight %d", ErrOversizedEntry, growth, free)
	}
	return nil
}

// free 返回距离硬上限的剩余权重，调用前必须持有锁。
func (c *Cache[K, V]) free() uint64 {
	hard := c.cfg.HardLimit()
	if c.weight >= hard {
		return 0
	}
	return hard - c.weight
}

// prune 裁剪缓存，调用前必须持有锁。
//
// 总权重达到硬上限时触发，从队尾开始淘汰，直到总权重不超过软上限。
// keep 非 nil 时为本次写入的键：它位于队首，裁剪不会淘汰它，
// 因此单个 SoftLimit < w <= HardLimit 的条目可以独自留在缓存中。
//
// 回调失败不会中断裁剪；所有失败合并后返回。
func (c *Cache[K, V]) prune(keep *K) error {
	if c.cfg.Unbounded() || c.weight < c.cfg.HardLimit() {
		return nil
	}

	var (
		errs    []error
		evicted int
		freed   uint64
	)
	for c.weight > c.cfg.SoftLimit {
		key, _, ok := c.store.back()
		if !ok || (keep != nil && key == *keep) {
			break
		}
		key, it, _ := c.store.removeBack()
		c.weight -= it.weight
		c.stats.Evictions++
		c.metrics.RecordRemoval(c.removeCtx, true, it.weight)
		evicted++
		freed += it.weight

		if err := c.dispatch(c.removeCtx, hookRemove, c.onRemove, Entry[K, V]{
			Key:    key,
			Value:  c.copyValue(it.value),
			Weight: it.weight,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	if c.logger != nil && evicted > 0 {
		c.logger.Debug(c.removeCtx, "xwlru: pruned",
			slog.Int("evicted", evicted),
			slog.Uint64("freed_weight", freed),
			slog.Uint64("total_weight", c.weight),
		)
	}
	return errors.Join(errs...)
}
