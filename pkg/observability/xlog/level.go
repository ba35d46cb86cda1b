package xlog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// ErrInvalidLevel 表示无法识别的级别名称。
var ErrInvalidLevel = errors.New("xlog: invalid level")

// Level 日志级别，数值与 slog.Level 相同，可直接比较。
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// levelNames 每个级别可接受的名称，第一个为规范名。
var levelNames = []struct {
	level Level
	names []string
}{
	{LevelDebug, []string{"debug"}},
	{LevelInfo, []string{"info"}},
	{LevelWarn, []string{"warn", "warning"}},
	{LevelError, []string{"error"}},
}

// String 返回规范名的大写形式；非标准级别沿用 slog 的写法（如 ERROR+1）。
func (l Level) String() string {
	for _, ln := range levelNames {
		if ln.level == l {
			return strings.ToUpper(ln.names[0])
		}
	}
	return l.slog().String()
}

// UnmarshalText 实现 encoding.TextUnmarshaler，配置文件可直接写级别名称。
// 解析失败时 l 保持不变。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err == nil {
		*l = parsed
	}
	return err
}

// ParseLevel 按名称解析级别，忽略大小写与首尾空白。
// 无法识别时返回 LevelInfo 和 ErrInvalidLevel。
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	known := make([]string, 0, len(levelNames)+1)
	for _, ln := range levelNames {
		if slices.Contains(ln.names, name) {
			return ln.level, nil
		}
		known = append(known, ln.names...)
	}
	return LevelInfo, fmt.Errorf("%w %q, want one of %s", ErrInvalidLevel, s, strings.Join(known, "/"))
}

func (l Level) slog() slog.Level { return slog.Level(l) }
