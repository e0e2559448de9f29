package xtarget

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// HotSwappable 允许在运行期替换目标对象。
//
// Swap 对之后开始的调用立即可见；已在进行中的调用继续使用它们取到的旧目标。
type HotSwappable struct {
	typ     reflect.Type
	current atomic.Pointer[boxed]
}

type boxed struct {
	v any
}

var _ xaop.TargetSource = (*HotSwappable)(nil)

// NewHotSwappable 以 initial 为当前目标创建可热替换来源，
// 之后的替换目标必须与 initial 类型相同。
func NewHotSwappable(initial any) (*HotSwappable, error) {
	if initial == nil {
		return nil, ErrNilTarget
	}
	return newHotSwappable(reflect.TypeOf(initial), initial), nil
}

// NewHotSwappableAs 创建可热替换来源，替换目标只需实现接口 I（或等于类型 I）。
func NewHotSwappableAs[I any](initial I) (*HotSwappable, error) {
	if any(initial) == nil {
		return nil, ErrNilTarget
	}
	return newHotSwappable(reflect.TypeFor[I](), initial), nil
}

func newHotSwappable(typ reflect.Type, initial any) *HotSwappable {
	h := &HotSwappable{typ: typ}
	h.current.Store(&boxed{v: initial})
	return h
}

// TargetType 返回目标类型。
func (h *HotSwappable) TargetType() reflect.Type { return h.typ }

// IsStatic 总是返回 false。
func (*HotSwappable) IsStatic() bool { return false }

// Target 返回当前目标。
func (h *HotSwappable) Target(context.Context) (any, error) {
	return h.current.Load().v, nil
}

// Release 无操作。
func (*HotSwappable) Release(any) error { return nil }

// Swap 原子替换目标并返回旧目标。
func (h *HotSwappable) Swap(target any) (any, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if !h.compatible(reflect.TypeOf(target)) {
		return nil, fmt.Errorf("%w: have %T, want %v", ErrTypeMismatch, target, h.typ)
	}
	old := h.current.Swap(&boxed{v: target})
	return old.v, nil
}

func (h *HotSwappable) compatible(t reflect.Type) bool {
	if h.typ.Kind() == reflect.Interface {
		return t.Implements(h.typ)
	}
	return t == h.typ
}
