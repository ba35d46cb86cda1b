package xwlru

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xwcache/pkg/observability/xlog"
)

// Option 定义缓存可选配置函数类型。
type Option[K comparable, V any] func(*options[K, V])

// options 内部可选配置。
type options[K comparable, V any] struct {
	onInsert      Hook[K, V]
	onRemove      Hook[K, V]
	insertCtx     context.Context
	removeCtx     context.Context
	locker        sync.Locker
	clone         func(V) V
	logger        xlog.Logger
	meterProvider metric.MeterProvider
}

func defaultOptions[K comparable, V any]() *options[K, V] {
	return &options[K, V]{
		insertCtx: context.Background(),
		removeCtx: context.Background(),
	}
}

// WithOnInsert 设置插入回调。
//
// 每次成功的 Set/SetWithContext（新建或更新）在裁剪之后调用一次。
// 回调在锁内同步执行：严禁在回调中调用同一 Cache 的任何方法（会死锁），
// 也应避免耗时操作。
func WithOnInsert[K comparable, V any](fn func(ctx context.Context, e Entry[K, V]) error) Option[K, V] {
	return func(o *options[K, V]) {
		o.onInsert = fn
	}
}

// WithOnRemove 设置移除回调。
//
// 每个被移除的条目调用一次，包括 Delete 显式删除和裁剪淘汰；Clear 不触发。
// 总是使用默认移除 ctx（见 [WithRemoveContext]）。约束同 [WithOnInsert]。
func WithOnRemove[K comparable, V any](fn func(ctx context.Context, e Entry[K, V]) error) Option[K, V] {
	return func(o *options[K, V]) {
		o.onRemove = fn
	}
}

// WithInsertContext 设置默认插入 ctx。
// Set 以及 ctx 为 nil 的 SetWithContext 都会把它交给插入回调。nil 被忽略。
func WithInsertContext[K comparable, V any](ctx context.Context) Option[K, V] {
	return func(o *options[K, V]) {
		if ctx != nil {
			o.insertCtx = ctx
		}
	}
}

// WithRemoveContext 设置默认移除 ctx。nil 被忽略。
func WithRemoveContext[K comparable, V any](ctx context.Context) Option[K, V] {
	return func(o *options[K, V]) {
		if ctx != nil {
			o.removeCtx = ctx
		}
	}
}

// WithLocker 设置并发保护策略。
//
// 默认使用 *sync.Mutex。单 goroutine 场景可传入 [NoLock] 省去加锁开销。
// nil 被忽略。
func WithLocker[K comparable, V any](l sync.Locker) Option[K, V] {
	return func(o *options[K, V]) {
		if l != nil {
			o.locker = l
		}
	}
}

// WithCloneFunc 设置值拷贝函数。
//
// 写入时拷贝一次入库，读取（Get/TryGet/Peek/Walk）与回调时再拷贝一次交给调用方，
// 确保调用方持有的值与缓存内部存储互不别名。
// 值类型含切片、map 或指针时建议设置。
func WithCloneFunc[K comparable, V any](fn func(V) V) Option[K, V] {
	return func(o *options[K, V]) {
		o.clone = fn
	}
}

// WithLogger 设置日志记录器。默认不记录日志。
func WithLogger[K comparable, V any](logger xlog.Logger) Option[K, V] {
	return func(o *options[K, V]) {
		o.logger = logger
	}
}

// WithMeterProvider 设置 OpenTelemetry MeterProvider。
// 为 nil 时不收集指标。
func WithMeterProvider[K comparable, V any](mp metric.MeterProvider) Option[K, V] {
	return func(o *options[K, V]) {
		o.meterProvider = mp
	}
}
