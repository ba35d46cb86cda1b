// Package xwlru 提供按权重淘汰的进程内 LRU 缓存。
//
// 与按条目数淘汰的 xlru 不同，xwlru 的每个条目携带调用方给出的权重
// （如字节数），容量以总权重计算。
//
// # 核心特性
//
//   - 泛型支持：任意 comparable 键类型和任意值类型
//   - 权重淘汰：软上限 + 弹性空间，达到硬上限时批量裁剪回软上限
//   - 回调：插入回调与移除回调（显式删除与淘汰都会触发），可携带 context
//   - 可插拔并发保护：默认 sync.Mutex，单 goroutine 场景可用 NoLock
//   - 可观测：可选 xlog 日志与 OpenTelemetry 指标
//   - 配置热更新：通过 xconf 监视配置文件并自动 Resize
//   - 分片：Sharded 按 xxhash 把字符串键分到多个独立 Cache，降低锁争用
//
// # 容量模型
//
//   - SoftLimit：裁剪的目标总权重，0 表示不限容量
//   - Slack：允许超出 SoftLimit 的余量
//   - HardLimit = SoftLimit + Slack
//
// 总权重在 SoftLimit 与 HardLimit 之间时不裁剪；每次写入后若总权重达到
// HardLimit，从最久未使用的一端开始淘汰，直到总权重不超过 SoftLimit。
// 这样用有界的内存超额换取更少的裁剪次数。
//
// 裁剪不会淘汰本次写入的条目。因此写入一个 SoftLimit < weight <= HardLimit
// 的条目后，裁剪可能在总权重仍高于 SoftLimit 时停止（缓存中只剩该条目），
// 但总权重始终不超过 HardLimit。
//
// 权重超过 HardLimit 的新条目、或权重增量超过剩余空间的更新，
// 以 ErrOversizedEntry 拒绝，缓存不做任何修改。不限容量时只拒绝
// 会使总权重溢出 uint64 的写入。
//
// # 分片
//
// Sharded 把全局预算均分给每个分片（向下取整，各分片预算之和不超过全局预算），
// 淘汰顺序只在分片内严格，单条目上限为分片的硬上限。有上限时 SoftLimit
// 不得小于分片数，否则返回 ErrInvalidConfig。适合键为字符串、并发度高且能接受近似 LRU 的场景。
//
// # 错误
//
//   - ErrKeyNotFound：Get 的键不存在
//   - ErrOversizedEntry：写入超出硬上限
//   - ErrCallbackFailed：回调返回错误或 panic；触发回调的变更已经生效
//   - ErrInvalidConfig：SoftLimit + Slack 溢出，或分片数不是 2 的幂
//
// # 注意事项
//
//   - 回调与 Walk 的访问函数在锁内同步执行，严禁在其中调用同一 Cache 的方法（会死锁）
//   - Clear 不触发移除回调
//   - 读取返回值的拷贝；值含引用类型时应通过 WithCloneFunc 提供深拷贝
//   - 使用 NoLock 时调用方必须自行串行化所有调用
package xwlru
