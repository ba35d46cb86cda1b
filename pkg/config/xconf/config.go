package xconf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 定义配置接口。
type Config interface {
	// Unmarshal 将指定路径的配置反序列化到目标结构体。
	// path 为空字符串时反序列化整个配置。字段映射使用 koanf 标签。
	Unmarshal(path string, target any) error

	// Reload 重新读取配置文件。从字节数据创建的 Config 返回 ErrNotWatchable。
	Reload() error

	// Path 返回配置文件路径，从字节数据创建的 Config 返回空字符串。
	Path() string

	// Format 返回配置格式。
	Format() Format
}

// koanf 键分隔符与 Unmarshal 使用的结构体标签。
const (
	keyDelim  = "."
	structTag = "koanf"
)

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}
