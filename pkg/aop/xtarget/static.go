package xtarget

import (
	"context"
	"reflect"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// Singleton 每次返回同一个目标对象。
type Singleton struct {
	target any
}

var _ xaop.TargetSource = (*Singleton)(nil)

// NewSingleton 创建固定目标来源。
func NewSingleton(target any) *Singleton {
	return &Singleton{target: target}
}

// TargetType 返回目标的动态类型。
func (s *Singleton) TargetType() reflect.Type { return reflect.TypeOf(s.target) }

// IsStatic 总是返回 true。
func (*Singleton) IsStatic() bool { return true }

// Target 返回固定目标，目标为 nil 时返回 ErrNilTarget。
func (s *Singleton) Target(context.Context) (any, error) {
	if s.target == nil {
		return nil, ErrNilTarget
	}
	return s.target, nil
}

// Release 无操作。
func (*Singleton) Release(any) error { return nil }

// Empty 没有目标对象。通过它的代理调用到连接点会得到 xaop.ErrNoTarget。
type Empty struct {
	typ reflect.Type
}

var _ xaop.TargetSource = (*Empty)(nil)

// NewEmpty 创建空来源，typ 可为 nil。
func NewEmpty(typ reflect.Type) *Empty {
	return &Empty{typ: typ}
}

// TargetType 返回创建时给定的类型。
func (e *Empty) TargetType() reflect.Type { return e.typ }

// IsStatic 总是返回 true。
func (*Empty) IsStatic() bool { return true }

// Target 总是返回 nil。
func (*Empty) Target(context.Context) (any, error) { return nil, nil }

// Release 无操作。
func (*Empty) Release(any) error { return nil }
