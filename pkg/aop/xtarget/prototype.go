package xtarget

import (
	"context"
	"io"
	"reflect"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// Prototype 每次调用都创建新的目标对象，调用结束时关闭实现了 io.Closer 的目标。
type Prototype[T any] struct {
	factory func(ctx context.Context) (T, error)
}

var _ xaop.TargetSource = (*Prototype[any])(nil)

// NewPrototype 创建原型来源。
func NewPrototype[T any](factory func(ctx context.Context) (T, error)) (*Prototype[T], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	return &Prototype[T]{factory: factory}, nil
}

// TargetType 返回 T。
func (*Prototype[T]) TargetType() reflect.Type { return reflect.TypeFor[T]() }

// IsStatic 总是返回 false。
func (*Prototype[T]) IsStatic() bool { return false }

// Target 创建新目标。
func (p *Prototype[T]) Target(ctx context.Context) (any, error) {
	return p.factory(ctx)
}

// Release 关闭实现了 io.Closer 的目标。
func (*Prototype[T]) Release(target any) error {
	if c, ok := target.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
