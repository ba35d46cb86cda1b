// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持动态级别与文件轮转
//
// 指标通过 OpenTelemetry metric API 直接暴露，由各组件按需接收 MeterProvider，
// 例如 xwlru.WithMeterProvider。
package observability
