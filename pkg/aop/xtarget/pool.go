package xtarget

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// ExhaustedPolicy 决定池满时 Target 的行为。
type ExhaustedPolicy int

const (
	// PolicyBlock 等待对象归还，最长等待 MaxWait 或直到 context 取消。
	PolicyBlock ExhaustedPolicy = iota

	// PolicyFail 立即返回 ErrPoolExhausted。
	PolicyFail
)

// DefaultPoolSize 默认池容量。
const DefaultPoolSize = 8

// PoolStats 是池的瞬时统计。
type PoolStats struct {
	MaxSize int
	Active  int
	Idle    int
}

// PoolOption 配置 Pool。
type PoolOption func(*poolOptions)

type poolOptions struct {
	maxSize int
	policy  ExhaustedPolicy
	maxWait time.Duration
	destroy func(target any)
	logger  *slog.Logger
}

// WithMaxSize 设置池容量，必须 > 0。默认 DefaultPoolSize。
func WithMaxSize(n int) PoolOption {
	return func(o *poolOptions) {
		o.maxSize = n
	}
}

// WithExhaustedPolicy 设置池满时的策略，默认 PolicyBlock。
func WithExhaustedPolicy(p ExhaustedPolicy) PoolOption {
	return func(o *poolOptions) {
		o.policy = p
	}
}

// WithMaxWait 设置 PolicyBlock 下的最长等待时间。0 表示只受 context 约束。
func WithMaxWait(d time.Duration) PoolOption {
	return func(o *poolOptions) {
		o.maxWait = d
	}
}

// WithDestroy 设置对象被丢弃（池关闭）时的清理函数。
func WithDestroy(fn func(target any)) PoolOption {
	return func(o *poolOptions) {
		o.destroy = fn
	}
}

// WithLogger 设置日志记录器，nil 将被忽略。
func WithLogger(logger *slog.Logger) PoolOption {
	return func(o *poolOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Pool 是有界对象池来源，适合非线程安全的目标。
//
// 借出的对象总数不超过 MaxSize；空闲对象按后进先出复用。
// 可比较的对象按身份登记，Release 只接受本池借出且尚未归还的对象；
// 不可比较的对象只校验借出计数，归还正确的对象由调用方负责。
type Pool[T any] struct {
	factory func(ctx context.Context) (T, error)
	opts    poolOptions
	sem     *semaphore.Weighted

	mu     sync.Mutex
	idle   []T
	active int
	lent   map[any]int
	closed bool
}

var _ xaop.TargetSource = (*Pool[any])(nil)

// NewPool 创建对象池来源。
func NewPool[T any](factory func(ctx context.Context) (T, error), opts ...PoolOption) (*Pool[T], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	o := poolOptions{maxSize: DefaultPoolSize, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.maxSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPoolSize, o.maxSize)
	}
	return &Pool[T]{
		factory: factory,
		opts:    o,
		sem:     semaphore.NewWeighted(int64(o.maxSize)),
		lent:    make(map[any]int),
	}, nil
}

// TargetType 返回 T。
func (*Pool[T]) TargetType() reflect.Type { return reflect.TypeFor[T]() }

// IsStatic 总是返回 false。
func (*Pool[T]) IsStatic() bool { return false }

// Target 借出一个对象，必要时创建。
func (p *Pool[T]) Target(ctx context.Context) (any, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}
	if err := p.acquire(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		t := p.idle[n-1]
		var zero T
		p.idle[n-1] = zero
		p.idle = p.idle[:n-1]
		p.active++
		p.lend(t)
		p.mu.Unlock()
		return t, nil
	}
	p.active++
	p.mu.Unlock()

	t, err := p.factory(ctx)
	if err != nil {
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, err
	}
	p.mu.Lock()
	p.lend(t)
	p.mu.Unlock()
	return t, nil
}

// identity 返回 t 作为 map 键的身份，动态值不可比较时返回 false。
func identity[T any](t T) (any, bool) {
	v := any(t)
	if v == nil || !reflect.ValueOf(v).Comparable() {
		return nil, false
	}
	return v, true
}

// lend 登记借出的对象，调用方持有 p.mu。
func (p *Pool[T]) lend(t T) {
	if key, ok := identity(t); ok {
		p.lent[key]++
	}
}

// giveBack 注销归还的对象，调用方持有 p.mu。
func (p *Pool[T]) giveBack(t T) bool {
	if p.active == 0 {
		return false
	}
	key, ok := identity(t)
	if !ok {
		return true
	}
	n := p.lent[key]
	switch {
	case n == 0:
		return false
	case n == 1:
		delete(p.lent, key)
	default:
		p.lent[key] = n - 1
	}
	return true
}

func (p *Pool[T]) acquire(ctx context.Context) error {
	if p.opts.policy == PolicyFail {
		if !p.sem.TryAcquire(1) {
			return fmt.Errorf("%w: %d objects in use", ErrPoolExhausted, p.opts.maxSize)
		}
		return nil
	}
	if p.opts.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.maxWait)
		defer cancel()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrPoolExhausted, err)
	}
	return nil
}

// Release 归还对象。池已关闭时对象被销毁。
// 可比较的对象不是本池借出或已归还时返回 ErrNotBorrowed。
func (p *Pool[T]) Release(target any) error {
	t, ok := target.(T)
	if !ok && target != nil {
		return fmt.Errorf("%w: %T", ErrTypeMismatch, target)
	}
	p.mu.Lock()
	if !p.giveBack(t) {
		p.mu.Unlock()
		return ErrNotBorrowed
	}
	p.active--
	closed := p.closed
	if !closed {
		p.idle = append(p.idle, t)
	}
	p.mu.Unlock()

	if closed {
		p.destroy(t)
	}
	p.sem.Release(1)
	return nil
}

// Stats 返回池的瞬时统计。
func (p *Pool[T]) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{MaxSize: p.opts.maxSize, Active: p.active, Idle: len(p.idle)}
}

// Close 关闭池并销毁空闲对象。借出中的对象在归还时销毁。可重复调用。
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	active := p.active
	p.mu.Unlock()

	for _, t := range idle {
		p.destroy(t)
	}
	p.opts.logger.Debug("xtarget: pool closed",
		slog.Int("destroyed", len(idle)),
		slog.Int("active", active))
	return nil
}

func (p *Pool[T]) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool[T]) destroy(t T) {
	if p.opts.destroy != nil {
		p.opts.destroy(t)
	}
}
