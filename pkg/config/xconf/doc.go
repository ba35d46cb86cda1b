// Package xconf 提供配置加载、反序列化与热重载，基于 koanf 实现。
//
// xconf 只负责文件/字节数据的加载、类型安全的 Unmarshal 与文件监视；
// 字段校验与默认值由使用方（如 xwlru.Config.Validate）负责。
//
// # 支持的格式
//
//   - YAML（推荐）：.yaml, .yml
//   - JSON：.json
//
// # 并发安全
//
// Unmarshal 与 Reload 并发安全。Reload 解析成功后整体替换内部 koanf 实例，
// 解析失败时保留旧配置。
//
// # 配置监视
//
// [Watch] 基于 fsnotify 监视配置文件所在目录（兼容编辑器的原子写入），
// 内置防抖。从 bytes 创建的 Config 不支持监视。
// Stop() 等待正在执行的回调完成，返回后不再有回调执行；回调中使用 StopAsync()。
package xconf
