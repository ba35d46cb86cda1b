package xwlru

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omeyang/xwcache/pkg/observability/xlog"
)

// dispatch 调用回调，调用前必须持有锁。
//
// 回调返回的错误与 panic 都被转换为 ErrCallbackFailed。
// 调用时条目变更已经提交，这里只负责上报。
func (c *Cache[K, V]) dispatch(ctx context.Context, name string, hook Hook[K, V], e Entry[K, V]) (err error) {
	if hook == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s hook panic: %v", ErrCallbackFailed, name, r)
		}
		if err == nil {
			return
		}
		c.stats.CallbackFailures++
		c.metrics.RecordCallbackFailure(ctx, name)
		if c.logger != nil {
			c.logger.Warn(ctx, "xwlru: callback failed",
				slog.String("hook", name),
				slog.Uint64("weight", e.Weight),
				xlog.Err(err),
			)
		}
	}()

	if hookErr := hook(ctx, e); hookErr != nil {
		return fmt.Errorf("%w: %s hook: %w", ErrCallbackFailed, name, hookErr)
	}
	return nil
}
