package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce 默认防抖时间。
const defaultDebounce = 100 * time.Millisecond

// WatchCallback 文件变更回调函数，err 表示重载是否成功。
type WatchCallback func(cfg Config, err error)

// WatchOption 监视器配置选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

// WithDebounce 设置防抖时间：在此时间内的多次变更只触发一次重载。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watcher 配置文件监视器
type Watcher struct {
	cfg      *koanfConfig
	fs       *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// Watch 创建配置文件监视器。
//
// 文件变更时自动 Reload 并调用 callback。返回的 Watcher 需要调用
// StartAsync 开始监视、Stop 停止监视。只能监视通过 [New] 从文件创建的 Config。
func Watch(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	kc, ok := cfg.(*koanfConfig)
	if !ok || kc.path == "" {
		return nil, ErrNotWatchable
	}

	o := &watchOptions{debounce: defaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: failed to create watcher: %w", err)
	}

	// 监视目录而非文件本身：编辑器保存时可能先删除再创建
	dir := filepath.Dir(kc.path)
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(
			fmt.Errorf("xconf: failed to watch directory %s: %w", dir, err),
			fsWatcher.Close(),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		cfg:      kc,
		fs:       fsWatcher,
		callback: callback,
		debounce: o.debounce,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// StartAsync 在后台 goroutine 中开始监视。重复调用或 Stop 之后调用是空操作。
func (w *Watcher) StartAsync() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.run()
}

// Stop 停止监视并等待监视 goroutine 退出，返回后不再有回调执行。
//
// 正在执行的回调会先完成。Stop 不能在回调中调用（会等待自身而死锁），
// 回调中请使用 [Watcher.StopAsync]。
func (w *Watcher) Stop() error {
	started, err := w.shutdown()
	if started {
		<-w.done
	}
	return err
}

// StopAsync 停止监视但不等待：当前回调返回后不会再触发新的回调。
// 可以在回调中调用；之后仍可调用 Stop 等待监视 goroutine 退出。
func (w *Watcher) StopAsync() error {
	_, err := w.shutdown()
	return err
}

// shutdown 只执行一次取消与关闭，返回监视 goroutine 是否已启动。
func (w *Watcher) shutdown() (started bool, err error) {
	w.mu.Lock()
	started = w.started
	if w.stopped {
		w.mu.Unlock()
		return started, nil
	}
	w.stopped = true
	w.mu.Unlock()

	w.cancel()
	return started, w.fs.Close()
}

// run 监视循环。防抖计时器与回调都在此 goroutine 中执行。
func (w *Watcher) run() {
	defer close(w.done)

	filename := filepath.Base(w.cfg.path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(event, filename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.notify(fmt.Errorf("xconf: watch error: %w", err))

		case <-fire:
			fire = nil
			w.notify(w.cfg.Reload())
		}
	}
}

func (w *Watcher) notify(err error) {
	if w.callback == nil || w.ctx.Err() != nil {
		return
	}
	w.callback(w.cfg, err)
}

// relevant 只关心目标文件的写入、创建与重命名（vim/emacs 原子写入）。
func relevant(event fsnotify.Event, filename string) bool {
	if filepath.Base(event.Name) != filename {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
