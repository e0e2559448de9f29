package xadvice

import "errors"

var (
	// ErrCircuitOpen 表示熔断器处于打开状态或半开状态下请求过多，调用未执行。
	ErrCircuitOpen = errors.New("xadvice: circuit breaker rejected call")

	// ErrConcurrencyLimitReached 表示并发调用数已达上限。
	ErrConcurrencyLimitReached = errors.New("xadvice: concurrency limit reached")

	// ErrInvalidLimit 表示并发上限不合法。
	ErrInvalidLimit = errors.New("xadvice: concurrency limit must be positive")

	// ErrInvalidCacheSize 表示缓存容量不合法。
	ErrInvalidCacheSize = errors.New("xadvice: cache size must be positive")
)
