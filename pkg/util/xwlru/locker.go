package xwlru

import "sync"

var _ sync.Locker = NoLock{}

// NoLock 是空操作的 sync.Locker。
//
// 仅在单个 goroutine 使用缓存（或调用方在外部串行化）时使用。
// 并发使用 NoLock 保护的缓存是未定义行为。
type NoLock struct{}

// Lock 不做任何事。
func (NoLock) Lock() {}

// Unlock 不做任何事。
func (NoLock) Unlock() {}
