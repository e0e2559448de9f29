package xadvice

import (
	"log/slog"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

const (
	defaultAttempts = 3
	defaultDelay    = 100 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

// RetryOption 配置 Retry。
type RetryOption func(*Retry)

// WithAttempts 设置最大尝试次数（含首次）。默认 3，0 将被忽略。
func WithAttempts(n uint) RetryOption {
	return func(r *Retry) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithDelay 设置首次重试前的等待时间，之后指数退避。默认 100ms。
func WithDelay(d time.Duration) RetryOption {
	return func(r *Retry) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithMaxDelay 设置单次等待上限。默认 5s。
func WithMaxDelay(d time.Duration) RetryOption {
	return func(r *Retry) {
		if d > 0 {
			r.maxDelay = d
		}
	}
}

// WithRetryIf 设置哪些错误需要重试。默认全部重试。
func WithRetryIf(fn func(err error) bool) RetryOption {
	return func(r *Retry) {
		if fn != nil {
			r.retryIf = fn
		}
	}
}

// WithRetryLogger 设置重试日志记录器。默认 slog.Default()，nil 将被忽略。
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(r *Retry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Retry 在链的剩余部分返回错误时重试。
//
// 每次尝试都在调用的副本上执行，拦截器对实参的修改不会带入下一次尝试。
// 等待期间方法 context 取消时停止重试。全部失败时返回最后一次的错误。
type Retry struct {
	attempts uint
	delay    time.Duration
	maxDelay time.Duration
	retryIf  func(err error) bool
	logger   *slog.Logger
}

var _ xaop.MethodInterceptor = (*Retry)(nil)

// NewRetry 创建 Retry。
func NewRetry(opts ...RetryOption) *Retry {
	r := &Retry{
		attempts: defaultAttempts,
		delay:    defaultDelay,
		maxDelay: defaultMaxDelay,
		retryIf:  func(error) bool { return true },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Invoke 实现 xaop.MethodInterceptor。
func (r *Retry) Invoke(inv xaop.MethodInvocation) ([]any, error) {
	ctx := inv.Context()
	m := inv.Method()
	return retry.NewWithData[[]any](
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.MaxDelay(r.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(r.retryIf),
		retry.OnRetry(func(n uint, err error) {
			r.logger.DebugContext(ctx, "xadvice: retrying",
				slog.String("method", m.String()),
				slog.Uint64("attempt", uint64(n)+1),
				slog.Any("error", err))
		}),
		retry.LastErrorOnly(true),
	).Do(func() ([]any, error) {
		return inv.Clone().Proceed()
	})
}
