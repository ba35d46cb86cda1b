package xwlru

import (
	"fmt"
	"math"
)

// 默认软上限与弹性空间。
const (
	DefaultSoftLimit uint64 = 64
	DefaultSlack     uint64 = 10
)

// Config 定义缓存的权重预算。
type Config struct {
	// SoftLimit 软上限：裁剪后总权重回落到的目标值。
	// 0 表示不限（禁用淘汰，Slack 无意义）。
	SoftLimit uint64 `koanf:"soft_limit" json:"soft_limit"`

	// Slack 弹性空间：总权重允许超出 SoftLimit 的余量。
	// 硬上限 = SoftLimit + Slack，达到硬上限时触发一次批量裁剪。
	Slack uint64 `koanf:"slack" json:"slack"`
}

// DefaultConfig 返回默认配置（SoftLimit=64, Slack=10）。
func DefaultConfig() Config {
	return Config{
		SoftLimit: DefaultSoftLimit,
		Slack:     DefaultSlack,
	}
}

// Unbounded 报告缓存是否不限容量。
func (c Config) Unbounded() bool {
	return c.SoftLimit == 0
}

// HardLimit 返回硬上限 SoftLimit + Slack。
// 不限容量时返回 math.MaxUint64。
func (c Config) HardLimit() uint64 {
	if c.Unbounded() {
		return math.MaxUint64
	}
	return c.SoftLimit + c.Slack
}

// Validate 校验配置。
func (c Config) Validate() error {
	if c.Unbounded() {
		return nil
	}
	if c.Slack > math.MaxUint64-c.SoftLimit {
		return fmt.Errorf("%w: soft_limit %d + slack %d overflows uint64", ErrInvalidConfig, c.SoftLimit, c.Slack)
	}
	return nil
}
