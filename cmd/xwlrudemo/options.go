package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
)

// usageError 表示参数错误，对应退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// demoOptions 演示运行参数。
type demoOptions struct {
	configPath string
	configKey  string

	// soft/slack 仅在 hasSoft/hasSlack 为 true 时覆盖配置文件
	soft     uint64
	slack    uint64
	hasSoft  bool
	hasSlack bool

	workers   int
	keys      int
	maxWeight uint64
	show      int
	watch     time.Duration

	logLevel   string
	logFormat  string
	logFile    string
	logMaxSize int
	quiet      bool
}

func demoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML/JSON 配置文件路径",
		},
		&cli.StringFlag{
			Name:  "config-key",
			Usage: "配置文件中的缓存配置路径",
			Value: "cache",
		},
		&cli.Uint64Flag{
			Name:  "soft",
			Usage: "软上限（0 表示不限）",
		},
		&cli.Uint64Flag{
			Name:  "slack",
			Usage: "弹性空间",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "并发写入的 worker 数",
			Value:   4,
		},
		&cli.IntFlag{
			Name:    "keys",
			Aliases: []string{"k"},
			Usage:   "每个 worker 写入的键数",
			Value:   1000,
		},
		&cli.Uint64Flag{
			Name:  "max-weight",
			Usage: "单个条目的最大权重",
			Value: 8,
		},
		&cli.IntFlag{
			Name:  "show",
			Usage: "结束时打印的最近使用条目数",
			Value: 10,
		},
		&cli.DurationFlag{
			Name:  "watch",
			Usage: "写入结束后继续监视配置文件的时长",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "日志级别 (debug/info/warn/error)",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "日志格式 (text/json)",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "日志写入按大小轮转的文件而不是 stderr",
		},
		&cli.IntFlag{
			Name:  "log-max-size",
			Usage: "日志文件轮转阈值（MB，0 使用默认值 100）",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "不输出日志",
		},
	}
}

// optionsFromCommand 读取并校验命令行参数。
func optionsFromCommand(cmd *cli.Command) (demoOptions, error) {
	opts := demoOptions{
		configPath: cmd.String("config"),
		configKey:  cmd.String("config-key"),
		soft:       cmd.Uint64("soft"),
		slack:      cmd.Uint64("slack"),
		hasSoft:    cmd.IsSet("soft"),
		hasSlack:   cmd.IsSet("slack"),
		workers:    cmd.Int("workers"),
		keys:       cmd.Int("keys"),
		maxWeight:  cmd.Uint64("max-weight"),
		show:       cmd.Int("show"),
		watch:      cmd.Duration("watch"),
		logLevel:   cmd.String("log-level"),
		logFormat:  cmd.String("log-format"),
		logFile:    cmd.String("log-file"),
		logMaxSize: cmd.Int("log-max-size"),
		quiet:      cmd.Bool("quiet"),
	}
	return opts, opts.validate()
}

func (o demoOptions) validate() error {
	switch {
	case o.workers <= 0:
		return newUsageError("--workers 必须大于 0，当前值 %d", o.workers)
	case o.keys < 0:
		return newUsageError("--keys 不能为负数，当前值 %d", o.keys)
	case o.maxWeight == 0:
		return newUsageError("--max-weight 必须大于 0")
	case o.show < 0:
		return newUsageError("--show 不能为负数，当前值 %d", o.show)
	case o.watch < 0:
		return newUsageError("--watch 不能为负数，当前值 %s", o.watch)
	case o.watch > 0 && o.configPath == "":
		return newUsageError("--watch 需要同时指定 --config")
	case o.logMaxSize < 0:
		return newUsageError("--log-max-size 不能为负数，当前值 %d", o.logMaxSize)
	case o.quiet && o.logFile != "":
		return newUsageError("--quiet 与 --log-file 不能同时使用")
	}
	return nil
}
