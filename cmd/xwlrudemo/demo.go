package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xwcache/pkg/config/xconf"
	"github.com/omeyang/xwcache/pkg/observability/xlog"
	"github.com/omeyang/xwcache/pkg/util/xwlru"
)

// workerKey 是插入 ctx 中 worker 标识的键。
type workerKey struct{}

type demoCache = xwlru.Cache[string, []byte]

// runDemo 按 opts 创建缓存，并发写入后把统计写到 stdout。
func runDemo(ctx context.Context, opts demoOptions, stdout, stderr io.Writer) error {
	logger, cleanup, err := newLogger(opts, stderr)
	if err != nil {
		return newUsageError("日志配置无效: %v", err)
	}
	defer func() { _ = cleanup() }()
	// 运行期间信号处理等全局日志也写到同一目标
	prev := xlog.Default()
	xlog.SetDefault(logger)
	defer xlog.SetDefault(prev)
	log := logger.With(xlog.Component("xwlrudemo"))

	cfg, provider, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var evicted atomic.Int64
	cache, err := xwlru.New[string, []byte](cfg,
		xwlru.WithLogger[string, []byte](log),
		xwlru.WithCloneFunc[string](bytes.Clone),
		xwlru.WithOnInsert(func(ctx context.Context, e xwlru.Entry[string, []byte]) error {
			worker, _ := ctx.Value(workerKey{}).(string)
			log.Debug(ctx, "inserted",
				slog.String("worker", worker),
				slog.String("key", e.Key),
				slog.Uint64("weight", e.Weight),
			)
			return nil
		}),
		xwlru.WithOnRemove(func(context.Context, xwlru.Entry[string, []byte]) error {
			evicted.Add(1)
			return nil
		}),
	)
	if err != nil {
		return err
	}

	log.Info(ctx, "starting workload",
		slog.Uint64("soft_limit", cfg.SoftLimit),
		slog.Uint64("slack", cfg.Slack),
		slog.Int("workers", opts.workers),
		slog.Int("keys", opts.keys),
	)

	g, gctx := errgroup.WithContext(ctx)
	for n := range opts.workers {
		id := uuid.NewString()
		g.Go(func() error {
			return work(context.WithValue(gctx, workerKey{}, id), cache, n, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("workload: %w", err)
	}
	log.Info(ctx, "workload finished", xlog.Count(int(evicted.Load())))

	if provider != nil && opts.watch > 0 {
		watchCtx, cancel := context.WithTimeout(ctx, opts.watch)
		defer cancel()
		if err := xwlru.WatchLimits(watchCtx, cache, provider); err != nil {
			return err
		}
		log.Info(ctx, "watching config",
			slog.String("path", opts.configPath),
			slog.Duration("for", opts.watch),
		)
		<-watchCtx.Done()
	}

	return writeReport(stdout, cache, opts.show)
}

// newLogger 按 opts 构建日志：--quiet 丢弃全部输出，--log-file 写入轮转文件，否则写 stderr。
func newLogger(opts demoOptions, stderr io.Writer) (xlog.LevelLogger, func() error, error) {
	if opts.quiet {
		return xlog.Discard(), func() error { return nil }, nil
	}
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(opts.logLevel).
		SetFormat(opts.logFormat)
	if opts.logFile != "" {
		b = b.SetRotation(opts.logFile, opts.logMaxSize)
	}
	return b.Build()
}

// loadConfig 依次应用默认值、配置文件与命令行覆盖。
// 指定了配置文件时同时返回可用于热更新的 provider。
func loadConfig(opts demoOptions) (xwlru.Config, xwlru.ConfigProvider, error) {
	cfg := xwlru.DefaultConfig()

	var provider xwlru.ConfigProvider
	if opts.configPath != "" {
		xc, err := xconf.New(opts.configPath)
		if err != nil {
			return xwlru.Config{}, nil, fmt.Errorf("load config: %w", err)
		}
		p := xwlru.NewXConfProvider(xc, opts.configKey)
		if cfg, err = p.Load(); err != nil {
			return xwlru.Config{}, nil, fmt.Errorf("load config: %w", err)
		}
		provider = p
	}

	if opts.hasSoft {
		cfg.SoftLimit = opts.soft
	}
	if opts.hasSlack {
		cfg.Slack = opts.slack
	}
	if err := cfg.Validate(); err != nil {
		return xwlru.Config{}, nil, newUsageError("%v", err)
	}
	return cfg, provider, nil
}

// work 写入 opts.keys 次随机键，键空间按 worker 划分，重复的键产生更新。
func work(ctx context.Context, cache *demoCache, n int, opts demoOptions) error {
	rng := rand.New(rand.NewPCG(uint64(n), 0x5eed))
	for i := range opts.keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := fmt.Sprintf("w%d/%d", n, rng.IntN(opts.keys))
		weight := 1 + rng.Uint64N(opts.maxWeight)
		err := cache.SetWithContext(ctx, key, make([]byte, weight), weight)
		if err != nil && !errors.Is(err, xwlru.ErrOversizedEntry) {
			return err
		}
		if i%2 == 0 {
			cache.TryGet(fmt.Sprintf("w%d/%d", n, rng.IntN(opts.keys)))
		}
	}
	return nil
}

// writeReport 输出上限、统计以及最近使用的 show 个条目。
func writeReport(w io.Writer, cache *demoCache, show int) error {
	s := cache.Stats()

	hard := fmt.Sprint(cache.HardLimit())
	if cache.HardLimit() == math.MaxUint64 {
		hard = "unbounded"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "limits    soft=%d slack=%d hard=%s\n", cache.SoftLimit(), cache.Slack(), hard)
	fmt.Fprintf(&buf, "entries   len=%d weight=%d free=%d\n", cache.Len(), cache.Weight(), cache.FreeWeight())
	fmt.Fprintf(&buf, "requests  hits=%d misses=%d ratio=%.2f\n", s.Hits, s.Misses, s.HitRatio())
	fmt.Fprintf(&buf, "writes    inserts=%d updates=%d rejections=%d\n", s.Inserts, s.Updates, s.Rejections)
	fmt.Fprintf(&buf, "removals  evicted=%d deleted=%d callback_failures=%d\n", s.Evictions, s.Removals, s.CallbackFailures)

	if show > 0 && !cache.Empty() {
		buf.WriteString("recent:\n")
		cache.Walk(func(e xwlru.Entry[string, []byte]) bool {
			fmt.Fprintf(&buf, "  %s weight=%d\n", e.Key, e.Weight)
			show--
			return show > 0
		})
	}

	_, err := w.Write(buf.Bytes())
	return err
}
