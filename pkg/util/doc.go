// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xwlru: 按权重淘汰的泛型 LRU 缓存，软上限 + 弹性空间批量裁剪、
//     插入/移除回调、可替换的锁策略、配置热更新与字符串键分片
//
// 设计原则：
//   - 零值不可用，统一通过 New 构造并校验配置
//   - 哨兵错误配合 errors.Is 判断
//   - 可选行为通过函数式选项注入
package util
