package xwlru

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omeyang/xwcache/pkg/config/xconf"
	"github.com/omeyang/xwcache/pkg/observability/xlog"
)

// ConfigProvider 从外部源加载缓存权重预算。
type ConfigProvider interface {
	// Load 加载配置。
	Load() (Config, error)
	// Watch 监视配置变更，返回变更通道。
	// ctx 取消后停止监视并关闭通道。
	Watch(ctx context.Context) (<-chan ConfigChange, error)
}

// ConfigChange 配置变更事件。
type ConfigChange struct {
	// NewConfig 新配置
	NewConfig Config
	// Err 加载失败时非 nil
	Err error
}

// XConfProvider 从 xconf.Config 的某个路径加载 [Config]。
type XConfProvider struct {
	cfg  xconf.Config
	path string
}

// NewXConfProvider 创建 xconf 配置提供器。
// path 为配置路径，如 "cache.objects"；为空时读取整个配置。
func NewXConfProvider(cfg xconf.Config, path string) *XConfProvider {
	return &XConfProvider{cfg: cfg, path: path}
}

// Load 从 xconf 加载并校验配置。
func (p *XConfProvider) Load() (Config, error) {
	var cfg Config
	if err := p.cfg.Unmarshal(p.path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch 监视配置文件变更，每次重载后投递最新配置。
// 只保留最新一次变更：消费慢时旧事件被丢弃。
func (p *XConfProvider) Watch(ctx context.Context) (<-chan ConfigChange, error) {
	ch := make(chan ConfigChange, 1)

	watcher, err := xconf.Watch(p.cfg, func(_ xconf.Config, watchErr error) {
		if ctx.Err() != nil {
			return
		}

		change := ConfigChange{Err: watchErr}
		if watchErr == nil {
			change.NewConfig, change.Err = p.Load()
		}

		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	})
	if err != nil {
		close(ch)
		return nil, err
	}

	go func() {
		watcher.StartAsync()
		<-ctx.Done()
		// Stop 返回后不再有回调执行，此后关闭通道是安全的
		_ = watcher.Stop()
		close(ch)
	}()

	return ch, nil
}

// NewFromProvider 通过 provider 加载配置并创建缓存。
func NewFromProvider[K comparable, V any](provider ConfigProvider, opts ...Option[K, V]) (*Cache[K, V], error) {
	cfg, err := provider.Load()
	if err != nil {
		return nil, fmt.Errorf("xwlru: config provider load failed: %w", err)
	}
	return New(cfg, opts...)
}

// WatchLimits 监视 provider 的配置变更，并通过 Resize 把新上限应用到 c。
//
// 监视在后台 goroutine 中进行，ctx 取消后退出。加载失败的变更会被跳过，
// 缓存保留原有上限。
func WatchLimits[K comparable, V any](ctx context.Context, c *Cache[K, V], provider ConfigProvider) error {
	changes, err := provider.Watch(ctx)
	if err != nil {
		return fmt.Errorf("xwlru: watch limits: %w", err)
	}

	go func() {
		for change := range changes {
			if change.Err != nil {
				c.warn(ctx, "xwlru: config reload failed", xlog.Err(change.Err))
				continue
			}
			if err := c.Resize(change.NewConfig.SoftLimit, change.NewConfig.Slack); err != nil {
				c.warn(ctx, "xwlru: resize after reload failed", xlog.Err(err))
			}
		}
	}()
	return nil
}

// warn 在配置了 logger 时记录 Warn 日志。logger 在 New 之后不变，无需持锁。
func (c *Cache[K, V]) warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger != nil {
		c.logger.Warn(ctx, msg, attrs...)
	}
}
