package xtarget

import (
	"context"
	"reflect"
	"sync"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// Lazy 在第一次调用时创建目标，之后一直返回同一对象。
//
// 创建失败不会被记住，下一次调用会重新尝试。并发的首次调用只会触发一次创建。
type Lazy[T any] struct {
	factory func(ctx context.Context) (T, error)

	mu     sync.Mutex
	target T
	ready  bool
}

var _ xaop.TargetSource = (*Lazy[any])(nil)

// NewLazy 创建延迟初始化来源。
func NewLazy[T any](factory func(ctx context.Context) (T, error)) (*Lazy[T], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	return &Lazy[T]{factory: factory}, nil
}

// TargetType 返回 T。
func (*Lazy[T]) TargetType() reflect.Type { return reflect.TypeFor[T]() }

// IsStatic 总是返回 true：初始化完成后目标不再变化。
func (*Lazy[T]) IsStatic() bool { return true }

// Target 返回目标，必要时先创建。
func (l *Lazy[T]) Target(ctx context.Context) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return l.target, nil
	}
	t, err := l.factory(ctx)
	if err != nil {
		return nil, err
	}
	l.target, l.ready = t, true
	return t, nil
}

// Release 无操作。
func (*Lazy[T]) Release(any) error { return nil }

// Initialized 报告目标是否已经创建。
func (l *Lazy[T]) Initialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}
