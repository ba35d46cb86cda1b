package xwlru

import "errors"

// 预定义错误，使用 errors.Is 进行比较。
var (
	// ErrKeyNotFound 表示键不在缓存中。Get 返回此错误，缓存状态不变。
	ErrKeyNotFound = errors.New("xwlru: key not found")

	// ErrOversizedEntry 表示条目权重（或更新时的权重增量）超过硬上限允许的空间。
	// 写入被整体拒绝，缓存状态不变。
	ErrOversizedEntry = errors.New("xwlru: entry weight exceeds hard limit")

	// ErrCallbackFailed 表示 OnInsert/OnRemove 回调返回错误或 panic。
	// 触发回调的变更已经提交，不会回滚。
	ErrCallbackFailed = errors.New("xwlru: callback failed")

	// ErrInvalidConfig 表示配置非法：SoftLimit + Slack 溢出 uint64，或分片数不合法。
	ErrInvalidConfig = errors.New("xwlru: invalid config")
)
