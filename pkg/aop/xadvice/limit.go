package xadvice

import (
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// LimitOption 配置 ConcurrencyLimit。
type LimitOption func(*ConcurrencyLimit)

// WithBlocking 饱和时阻塞等待，直到有空位或方法 context 结束。默认立即失败。
func WithBlocking(v bool) LimitOption {
	return func(c *ConcurrencyLimit) { c.blocking = v }
}

// ConcurrencyLimit 限制同时执行链剩余部分的调用数。
type ConcurrencyLimit struct {
	sem      *semaphore.Weighted
	limit    int64
	blocking bool
}

var _ xaop.MethodInterceptor = (*ConcurrencyLimit)(nil)

// NewConcurrencyLimit 创建并发上限为 n 的通知。
func NewConcurrencyLimit(n int64, opts ...LimitOption) (*ConcurrencyLimit, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	c := &ConcurrencyLimit{sem: semaphore.NewWeighted(n), limit: n}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Invoke 实现 xaop.MethodInterceptor。
func (c *ConcurrencyLimit) Invoke(inv xaop.MethodInvocation) ([]any, error) {
	if c.blocking {
		if err := c.sem.Acquire(inv.Context(), 1); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConcurrencyLimitReached, err)
		}
	} else if !c.sem.TryAcquire(1) {
		return nil, fmt.Errorf("%w: limit %d", ErrConcurrencyLimitReached, c.limit)
	}
	defer c.sem.Release(1)
	return inv.Proceed()
}
