package xadvice

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// BreakerOption 配置 Breaker。
type BreakerOption func(*breakerOptions)

type breakerOptions struct {
	maxRequests         uint32
	interval            time.Duration
	timeout             time.Duration
	consecutiveFailures uint32
	isSuccessful        func(err error) bool
	perMethod           bool
	logger              *slog.Logger
}

// WithMaxRequests 设置半开状态下允许通过的请求数。默认 1。
func WithMaxRequests(n uint32) BreakerOption {
	return func(o *breakerOptions) { o.maxRequests = n }
}

// WithInterval 设置关闭状态下清空计数的周期。0 表示不清空。
func WithInterval(d time.Duration) BreakerOption {
	return func(o *breakerOptions) { o.interval = d }
}

// WithOpenTimeout 设置打开状态持续多久后转为半开。默认 60s。
func WithOpenTimeout(d time.Duration) BreakerOption {
	return func(o *breakerOptions) { o.timeout = d }
}

// WithConsecutiveFailures 设置连续失败多少次后打开。默认 5。
func WithConsecutiveFailures(n uint32) BreakerOption {
	return func(o *breakerOptions) {
		if n > 0 {
			o.consecutiveFailures = n
		}
	}
}

// WithSuccessful 设置哪些错误不计为失败（例如业务校验错误）。
func WithSuccessful(fn func(err error) bool) BreakerOption {
	return func(o *breakerOptions) { o.isSuccessful = fn }
}

// WithPerMethod 为每个方法维护独立的熔断器。
func WithPerMethod(v bool) BreakerOption {
	return func(o *breakerOptions) { o.perMethod = v }
}

// WithBreakerLogger 设置状态变化日志记录器。默认 slog.Default()，nil 将被忽略。
func WithBreakerLogger(logger *slog.Logger) BreakerOption {
	return func(o *breakerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Breaker 用熔断器保护链的剩余部分。
type Breaker struct {
	name     string
	opts     breakerOptions
	shared   *gobreaker.CircuitBreaker[[]any]
	breakers sync.Map // method string -> *gobreaker.CircuitBreaker[[]any]
}

var _ xaop.MethodInterceptor = (*Breaker)(nil)

// NewBreaker 创建名为 name 的熔断通知。
func NewBreaker(name string, opts ...BreakerOption) *Breaker {
	o := breakerOptions{
		maxRequests:         1,
		consecutiveFailures: 5,
		logger:              slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	b := &Breaker{name: name, opts: o}
	if !o.perMethod {
		b.shared = b.newCircuitBreaker(name)
	}
	return b
}

func (b *Breaker) newCircuitBreaker(name string) *gobreaker.CircuitBreaker[[]any] {
	threshold := b.opts.consecutiveFailures
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: b.opts.maxRequests,
		Interval:    b.opts.interval,
		Timeout:     b.opts.timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.opts.logger.Info("xadvice: circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	if b.opts.isSuccessful != nil {
		st.IsSuccessful = b.opts.isSuccessful
	}
	return gobreaker.NewCircuitBreaker[[]any](st)
}

func (b *Breaker) circuitFor(m xaop.Method) *gobreaker.CircuitBreaker[[]any] {
	if b.shared != nil {
		return b.shared
	}
	key := m.String()
	if cb, ok := b.breakers.Load(key); ok {
		return cb.(*gobreaker.CircuitBreaker[[]any])
	}
	cb, _ := b.breakers.LoadOrStore(key, b.newCircuitBreaker(b.name+":"+key))
	return cb.(*gobreaker.CircuitBreaker[[]any])
}

// Invoke 实现 xaop.MethodInterceptor。
func (b *Breaker) Invoke(inv xaop.MethodInvocation) ([]any, error) {
	cb := b.circuitFor(inv.Method())
	out, err := cb.Execute(inv.Proceed)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", ErrCircuitOpen, cb.Name(), err)
	}
	return out, err
}

// State 返回方法 m 对应熔断器的状态。
func (b *Breaker) State(m xaop.Method) gobreaker.State {
	return b.circuitFor(m).State()
}
