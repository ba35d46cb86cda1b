package xwlru

import "context"

// Entry 是缓存的存储单元。
// Weight 由调用方按条目给出，用于按代价（而非条目数）淘汰。
type Entry[K comparable, V any] struct {
	Key    K
	Value  V
	Weight uint64
}

// Hook 是插入/移除回调。
//
// ctx 是调用方选择的不透明上下文：插入时为调用点传入的 ctx 或默认插入 ctx，
// 移除时总是默认移除 ctx。其它状态请通过闭包捕获。
// 返回的错误会以 [ErrCallbackFailed] 包装后返回给触发操作的调用方。
type Hook[K comparable, V any] func(ctx context.Context, e Entry[K, V]) error
