// Package xadvice 提供常用的环绕通知，均实现 xaop.MethodInterceptor，可用于任意 Advisor。
//
//   - Retry：基于 avast/retry-go 重试链的剩余部分，每次尝试使用调用的副本
//   - Breaker：基于 sony/gobreaker 的熔断，拒绝请求时返回 ErrCircuitOpen
//   - Cache：基于 ristretto 的结果缓存，命中时不继续执行链；并发未命中经 singleflight 合并
//   - Tracing：OpenTelemetry span、调用次数与耗时，span 的 context 写回方法首参
//   - Logging：log/slog 结构化日志，每次调用分配一个 uuid 作为调用属性
//   - ConcurrencyLimit：基于信号量的并发上限，饱和时返回 ErrConcurrencyLimitReached
//
// 除 Breaker 和 ConcurrencyLimit 的拒绝错误外，链上产生的错误原样返回。
//
// 示例：
//
//	retry := xadvice.NewRetry(xadvice.WithAttempts(3))
//	advisor := xaop.NewAdvisor(xaop.NewPointcut(nil, xpointcut.NameMatch("Fetch*")), retry)
package xadvice
