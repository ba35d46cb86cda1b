package xlog

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// globalLogger 全局 Logger 实例（并发安全）
var globalLogger atomic.Pointer[LevelLogger]

// Default 返回全局默认 Logger
//
// 懒初始化：首次调用时创建默认 Logger（stderr，Info 级别，text 格式）。
func Default() LevelLogger {
	if l := globalLogger.Load(); l != nil {
		return *l
	}
	// 默认参数不会失败
	logger, _, _ := New().Build()
	globalLogger.CompareAndSwap(nil, &logger)
	return *globalLogger.Load()
}

// SetDefault 替换全局默认 Logger，nil 会被忽略
func SetDefault(l LevelLogger) {
	if l == nil {
		return
	}
	globalLogger.Store(&l)
}

// Discard 返回丢弃所有输出的 Logger
func Discard() LevelLogger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelError + 1)
	return newHandlerLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelVar}), levelVar)
}

// Debug 使用全局 Logger 记录 Debug 日志
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Debug(ctx, msg, attrs...)
}

// Info 使用全局 Logger 记录 Info 日志
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Info(ctx, msg, attrs...)
}

// Warn 使用全局 Logger 记录 Warn 日志
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Warn(ctx, msg, attrs...)
}

// Error 使用全局 Logger 记录 Error 日志
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().Error(ctx, msg, attrs...)
}
