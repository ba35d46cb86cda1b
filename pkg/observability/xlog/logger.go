package xlog

import (
	"context"
	"log/slog"
	"time"
)

// Logger 结构化日志接口。
//
// 每个方法都接收 context.Context（nil 视为 Background），属性只接受 slog.Attr。
type Logger interface {
	Log(ctx context.Context, level Level, msg string, attrs ...slog.Attr)
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// Enabled 报告 level 的日志是否会被输出
	Enabled(ctx context.Context, level Level) bool

	// With 返回附带 attrs 的子 Logger，子 Logger 与父级共享级别
	With(attrs ...slog.Attr) Logger
}

// LevelLogger 是级别可在运行时调整的 Logger，由 [Builder.Build] 返回。
type LevelLogger interface {
	Logger
	SetLevel(level Level)
	Level() Level
}

var _ LevelLogger = (*handlerLogger)(nil)

// handlerLogger 把调用转发给 slog.Handler，级别由共享的 LevelVar 控制。
type handlerLogger struct {
	h     slog.Handler
	level *slog.LevelVar
}

func newHandlerLogger(h slog.Handler, level *slog.LevelVar) *handlerLogger {
	return &handlerLogger{h: h, level: level}
}

func (l *handlerLogger) Log(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.h.Enabled(ctx, level.slog()) {
		return
	}
	r := slog.NewRecord(time.Now(), level.slog(), msg, 0)
	r.AddAttrs(attrs...)
	// 日志写失败不影响调用方
	_ = l.h.Handle(ctx, r)
}

func (l *handlerLogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelDebug, msg, attrs...)
}

func (l *handlerLogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelInfo, msg, attrs...)
}

func (l *handlerLogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelWarn, msg, attrs...)
}

func (l *handlerLogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, LevelError, msg, attrs...)
}

func (l *handlerLogger) Enabled(ctx context.Context, level Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.h.Enabled(ctx, level.slog())
}

func (l *handlerLogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return newHandlerLogger(l.h.WithAttrs(attrs), l.level)
}

func (l *handlerLogger) SetLevel(level Level) { l.level.Set(level.slog()) }

func (l *handlerLogger) Level() Level { return Level(l.level.Level()) }
