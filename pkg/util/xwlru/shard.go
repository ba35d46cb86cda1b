package xwlru

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// 分片数默认值与上限。
const (
	DefaultShardCount = 16
	maxShardCount     = 256
)

// Sharded 是按字符串键分片的加权 LRU 缓存，用于降低高并发下的锁争用。
//
// 键通过 xxhash 映射到分片，每个分片是独立的 [Cache]，拥有自己的互斥锁、
// 最近使用序列与权重预算。预算按分片数均分，因此：
//
//   - 淘汰顺序只在分片内是严格 LRU，全局是近似 LRU
//   - 单个条目的上限是分片的硬上限，而不是全局硬上限
//   - 有上限时软上限不得小于分片数，各分片预算之和不超过全局预算
//
// 选项对所有分片生效；[WithLocker] 被忽略，每个分片总是使用独立的 *sync.Mutex。
type Sharded[V any] struct {
	shards []*Cache[string, V]
	mask   uint64
	cfg    Config
	mu     sync.Mutex // 串行化 Resize
}

// NewSharded 创建分片缓存。shardCount 必须是 [1, 256] 内的 2 的幂。
func NewSharded[V any](cfg Config, shardCount int, opts ...Option[string, V]) (*Sharded[V], error) {
	if shardCount < 1 || shardCount > maxShardCount || shardCount&(shardCount-1) != 0 {
		return nil, fmt.Errorf("%w: shard count %d must be a power of two in [1, %d]",
			ErrInvalidConfig, shardCount, maxShardCount)
	}
	if err := validateSplit(cfg, shardCount); err != nil {
		return nil, err
	}

	shardCfg := splitConfig(cfg, shardCount)
	shards := make([]*Cache[string, V], shardCount)
	for i := range shards {
		shardOpts := append(opts[:len(opts):len(opts)], WithLocker[string, V](&sync.Mutex{}))
		c, err := New(shardCfg, shardOpts...)
		if err != nil {
			return nil, err
		}
		shards[i] = c
	}
	return &Sharded[V]{
		shards: shards,
		// shardCount 已验证为正的 2 的幂
		mask: uint64(shardCount - 1),
		cfg:  cfg,
	}, nil
}

// validateSplit 校验 cfg 能否均分给 n 个分片。
// 有上限时软上限不得小于分片数，否则分片的软上限会被截断为 0（即变成无上限）。
func validateSplit(cfg Config, n int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Unbounded() && cfg.SoftLimit < uint64(n) {
		return fmt.Errorf("%w: soft_limit %d is smaller than shard count %d",
			ErrInvalidConfig, cfg.SoftLimit, n)
	}
	return nil
}

// splitConfig 把全局预算向下取整均分给 n 个分片，各分片预算之和不超过全局预算。
// 调用方需先用 validateSplit 校验。
func splitConfig(cfg Config, n int) Config {
	if cfg.Unbounded() {
		return cfg
	}
	return Config{SoftLimit: cfg.SoftLimit / uint64(n), Slack: cfg.Slack / uint64(n)}
}

func (s *Sharded[V]) shard(key string) *Cache[string, V] {
	return s.shards[xxhash.Sum64String(key)&s.mask]
}

// Set 写入条目，语义同 [Cache.Set]，上限按键所在分片计算。
func (s *Sharded[V]) Set(key string, value V, weight uint64) error {
	return s.shard(key).Set(key, value, weight)
}

// SetWithContext 语义同 [Cache.SetWithContext]。
func (s *Sharded[V]) SetWithContext(ctx context.Context, key string, value V, weight uint64) error {
	return s.shard(key).SetWithContext(ctx, key, value, weight)
}

// Get 语义同 [Cache.Get]。
func (s *Sharded[V]) Get(key string) (V, error) {
	return s.shard(key).Get(key)
}

// TryGet 语义同 [Cache.TryGet]。
func (s *Sharded[V]) TryGet(key string) (V, bool) {
	return s.shard(key).TryGet(key)
}

// Peek 语义同 [Cache.Peek]。
func (s *Sharded[V]) Peek(key string) (V, bool) {
	return s.shard(key).Peek(key)
}

// Delete 语义同 [Cache.Delete]。
func (s *Sharded[V]) Delete(key string) (bool, error) {
	return s.shard(key).Delete(key)
}

// Contains 语义同 [Cache.Contains]。
func (s *Sharded[V]) Contains(key string) bool {
	return s.shard(key).Contains(key)
}

// ShardCount 返回分片数。
func (s *Sharded[V]) ShardCount() int {
	return len(s.shards)
}

// Len 返回所有分片的条目数之和。并发写入时结果是近似值。
func (s *Sharded[V]) Len() int {
	var n int
	for _, c := range s.shards {
		n += c.Len()
	}
	return n
}

// Weight 返回所有分片的总权重之和。并发写入时结果是近似值。
func (s *Sharded[V]) Weight() uint64 {
	var w uint64
	for _, c := range s.shards {
		w += c.Weight()
	}
	return w
}

// Config 返回创建或最近一次 Resize 时的全局预算。
func (s *Sharded[V]) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Stats 返回所有分片计数器之和。
func (s *Sharded[V]) Stats() Stats {
	var total Stats
	for _, c := range s.shards {
		total = total.add(c.Stats())
	}
	return total
}

// Clear 清空所有分片，不触发移除回调。
func (s *Sharded[V]) Clear() {
	for _, c := range s.shards {
		c.Clear()
	}
}

// Resize 均分新预算并逐个分片裁剪。
// 配置非法时返回 ErrInvalidConfig 且不做任何修改；回调失败合并后返回。
func (s *Sharded[V]) Resize(softLimit, slack uint64) error {
	cfg := Config{SoftLimit: softLimit, Slack: slack}
	if err := validateSplit(cfg, len(s.shards)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shardCfg := splitConfig(cfg, len(s.shards))
	var errs []error
	for _, c := range s.shards {
		if err := c.Resize(shardCfg.SoftLimit, shardCfg.Slack); err != nil {
			errs = append(errs, err)
		}
	}
	s.cfg = cfg
	return errors.Join(errs...)
}

// Walk 逐个分片遍历条目，分片内从最近使用到最久未使用。fn 返回 false 时停止。
func (s *Sharded[V]) Walk(fn func(e Entry[string, V]) bool) {
	if fn == nil {
		return
	}
	stopped := false
	for _, c := range s.shards {
		c.Walk(func(e Entry[string, V]) bool {
			if !fn(e) {
				stopped = true
			}
			return !stopped
		})
		if stopped {
			return
		}
	}
}
