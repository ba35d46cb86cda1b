// xwlrudemo 是 xwlru 加权 LRU 缓存的演示与压测工具。
//
// 用法:
//
//	xwlrudemo [选项]
//
// 选项:
//
//	-c, --config      YAML/JSON 配置文件路径（可选）
//	    --config-key  配置文件中的缓存配置路径 (默认: cache)
//	    --soft        软上限，覆盖配置文件
//	    --slack       弹性空间，覆盖配置文件
//	-w, --workers     并发写入的 worker 数 (默认: 4)
//	-k, --keys        每个 worker 写入的键数 (默认: 1000)
//	    --max-weight  单个条目的最大权重 (默认: 8)
//	    --show        结束时打印的最近使用条目数 (默认: 10)
//	    --watch       写入结束后继续监视配置文件的时长，期间热更新上限
//	    --log-level   日志级别 (debug/info/warn/error)
//	    --log-format  日志格式 (text/json)
//	    --log-file    日志写入按大小轮转的文件（默认写 stderr）
//	    --log-max-size 日志文件轮转阈值，单位 MB (默认: 100)
//	-q, --quiet       不输出日志
//
// 退出码:
//
//	0: 成功
//	1: 运行失败
//	2: 参数错误
//
// 示例:
//
//	xwlrudemo --soft 500 --slack 50 -w 8 -k 2000
//	xwlrudemo -c cache.yaml --watch 1m --log-level debug
//	xwlrudemo -w 16 --log-file /tmp/xwlrudemo.log --log-format json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xwcache/pkg/observability/xlog"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	os.Exit(run(ctx, os.Args, os.Stdout, os.Stderr))
}

// createApp 创建 CLI 应用，输出写入 stdout，日志与错误写入 stderr。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xwlrudemo",
		Usage:     "xwlru 加权 LRU 缓存演示",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     demoFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := optionsFromCommand(cmd)
			if err != nil {
				return err
			}
			return runDemo(ctx, opts, stdout, stderr)
		},
		// 由 run() 统一处理退出码映射，禁止 urfave/cli 直接调用 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := createApp(stdout, stderr).Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// setupSignalHandler 第一次信号取消 ctx，第二次强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		xlog.Warn(context.Background(), "signal received, shutting down",
			slog.String("signal", sig.String()))
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
