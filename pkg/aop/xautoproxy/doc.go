// Package xautoproxy 在容器创建对象后决定是否为其生成代理。
//
// 容器通过 AdvisorSource 提供候选 Advisor；Creator 对每个目标：
//
//  1. 解析全部 Advisor 名字，跳过正在创建中的 Advisor（下次调用会重试）
//  2. 用 xpointcut.CanApply 过滤出适用于目标类型的 Advisor，结果缓存在有界 LRU 中
//  3. 按顺序覆盖值或 xaop.Ordered 稳定排序
//  4. 没有适用的 Advisor 时原样返回目标，否则按 Creator 的开关生成代理
//
// Advisor、Advice、Pointcut 和 TargetSource 本身属于基础设施，永远不会被代理。
package xautoproxy
