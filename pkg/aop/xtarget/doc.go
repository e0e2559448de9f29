// Package xtarget 提供 xaop.TargetSource 的常用实现。
//
//   - Singleton：固定目标，静态
//   - Empty：没有目标，用于纯引入或纯拦截器代理，静态
//   - Lazy：首次调用时创建目标，创建失败下次重试，静态
//   - Prototype：每次调用创建新目标，调用结束后关闭（若实现 io.Closer）
//   - Pool：有界对象池，容量由 golang.org/x/sync/semaphore 控制，
//     耗尽时阻塞等待或立即失败
//   - HotSwappable：可在运行期原子替换目标，替换对之后的调用立即生效
//
// 非静态来源的对象在每次代理调用结束时都会被 Release 一次，包括 panic 路径。
package xtarget
