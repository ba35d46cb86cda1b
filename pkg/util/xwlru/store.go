package xwlru

import (
	"math"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// item 是最近使用序列中节点携带的载荷。
type item[V any] struct {
	value  V
	weight uint64
}

// recency 组合索引与最近使用序列：
// simplelru 内部是 map[K]*entry 加双向链表，提供 O(1) 的查找、移到队首、
// 队首插入、队尾移除与按键移除。
//
// simplelru 本身不加锁，也不按权重淘汰；这里把条目数上限设为 math.MaxInt，
// 使其只承担存储与排序，权重记账和裁剪由 Cache 负责。
type recency[K comparable, V any] struct {
	lru *simplelru.LRU[K, item[V]]
}

func newRecency[K comparable, V any]() (*recency[K, V], error) {
	lru, err := simplelru.NewLRU[K, item[V]](math.MaxInt, nil)
	if err != nil {
		return nil, err
	}
	return &recency[K, V]{lru: lru}, nil
}

// lookup 查找条目，不改变顺序。
func (r *recency[K, V]) lookup(key K) (item[V], bool) {
	return r.lru.Peek(key)
}

// touch 查找条目并移到队首。
func (r *recency[K, V]) touch(key K) (item[V], bool) {
	return r.lru.Get(key)
}

// put 在队首插入条目；键已存在时替换载荷并移到队首。
func (r *recency[K, V]) put(key K, it item[V]) {
	r.lru.Add(key, it)
}

// back 返回队尾（最久未使用）条目。
func (r *recency[K, V]) back() (K, item[V], bool) {
	return r.lru.GetOldest()
}

// removeBack 移除并返回队尾条目。
func (r *recency[K, V]) removeBack() (K, item[V], bool) {
	return r.lru.RemoveOldest()
}

// remove 按键移除条目。
func (r *recency[K, V]) remove(key K) (item[V], bool) {
	it, ok := r.lru.Peek(key)
	if !ok {
		return it, false
	}
	r.lru.Remove(key)
	return it, true
}

func (r *recency[K, V]) len() int {
	return r.lru.Len()
}

func (r *recency[K, V]) purge() {
	r.lru.Purge()
}

// walk 从队首（最近使用）到队尾依次访问，fn 返回 false 时停止。
func (r *recency[K, V]) walk(fn func(key K, it item[V]) bool) {
	// Keys 按最旧到最新排列
	keys := r.lru.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		it, ok := r.lru.Peek(keys[i])
		if !ok {
			continue
		}
		if !fn(keys[i], it) {
			return
		}
	}
}
