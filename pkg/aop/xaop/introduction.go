package xaop

import (
	"fmt"
	"reflect"
	"sync"
)

// IntroductionInfo 描述引入拦截器发布的接口。
type IntroductionInfo interface {
	Interfaces() []reflect.Type
}

// IntroductionInterceptor 为代理引入新接口并负责处理这些接口上的调用。
type IntroductionInterceptor interface {
	MethodInterceptor
	ImplementsInterface(t reflect.Type) bool
}

// publishes 判断 t 是否为 ifaces 中某个接口本身或其子集接口。
func publishes(ifaces []reflect.Type, t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Interface {
		return false
	}
	for _, pub := range ifaces {
		if pub == t || pub.Implements(t) {
			return true
		}
	}
	return false
}

func validateDelegate(dt reflect.Type, ifaces []reflect.Type) error {
	if len(ifaces) == 0 {
		return fmt.Errorf("%w: no interfaces to introduce", ErrInvalidIntroduction)
	}
	for _, t := range ifaces {
		if t == nil || t.Kind() != reflect.Interface {
			return fmt.Errorf("%w: %v is not an interface", ErrInvalidIntroduction, t)
		}
		if dt == nil || !dt.Implements(t) {
			return fmt.Errorf("%w: delegate %v does not implement %v", ErrInvalidIntroduction, dt, t)
		}
	}
	return nil
}

// invokeDelegate 在委托对象上执行引入接口的方法。
// 委托方法返回委托对象本身时改为返回代理，调用方不会拿到裸委托。
func invokeDelegate(delegate any, inv MethodInvocation) ([]any, error) {
	m := inv.Method()
	out, err := Invoke(delegate, Method{Name: m.Name, Type: m.Type, Owner: m.Owner, Kind: KindMethod}, inv.Arguments())
	for i, v := range out {
		if SameObject(v, delegate) && inv.Proxy() != nil {
			out[i] = inv.Proxy()
		}
	}
	return out, err
}

// SameObject 判断两个值是否为同一对象，不可比较的值视为不同。
func SameObject(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// DelegatingIntroduction 把引入接口上的调用转发给一个共享的委托对象。
type DelegatingIntroduction struct {
	delegate any
	ifaces   []reflect.Type
}

var (
	_ IntroductionInterceptor = (*DelegatingIntroduction)(nil)
	_ IntroductionInfo        = (*DelegatingIntroduction)(nil)
)

// NewDelegatingIntroduction 创建共享委托的引入拦截器，delegate 必须实现全部 ifaces。
func NewDelegatingIntroduction(delegate any, ifaces ...reflect.Type) (*DelegatingIntroduction, error) {
	if delegate == nil {
		return nil, fmt.Errorf("%w: nil delegate", ErrInvalidIntroduction)
	}
	if err := validateDelegate(reflect.TypeOf(delegate), ifaces); err != nil {
		return nil, err
	}
	return &DelegatingIntroduction{delegate: delegate, ifaces: ifaces}, nil
}

// Interfaces 实现 IntroductionInfo。
func (d *DelegatingIntroduction) Interfaces() []reflect.Type {
	return append([]reflect.Type(nil), d.ifaces...)
}

// ImplementsInterface 实现 IntroductionInterceptor。
func (d *DelegatingIntroduction) ImplementsInterface(t reflect.Type) bool {
	return publishes(d.ifaces, t)
}

// Invoke 引入接口上的方法交给委托对象，其它方法继续沿链执行。
func (d *DelegatingIntroduction) Invoke(inv MethodInvocation) ([]any, error) {
	if d.ImplementsInterface(inv.Method().Owner) {
		return invokeDelegate(d.delegate, inv)
	}
	return inv.Proceed()
}

// PerTargetIntroduction 为每个目标对象维护独立的委托对象，适合带状态的引入（如 mixin 计数器）。
//
// 目标对象按身份区分，必须是可比较的值（通常是指针）。
// 委托对象在 Forget 之前一直被持有。
type PerTargetIntroduction struct {
	factory   func() any
	ifaces    []reflect.Type
	mu        sync.Mutex
	delegates map[any]any
}

var (
	_ IntroductionInterceptor = (*PerTargetIntroduction)(nil)
	_ IntroductionInfo        = (*PerTargetIntroduction)(nil)
)

// NewPerTargetIntroduction 创建按目标划分委托的引入拦截器，D 必须实现全部 ifaces。
func NewPerTargetIntroduction[D any](factory func() D, ifaces ...reflect.Type) (*PerTargetIntroduction, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil delegate factory", ErrInvalidIntroduction)
	}
	if err := validateDelegate(reflect.TypeFor[D](), ifaces); err != nil {
		return nil, err
	}
	return &PerTargetIntroduction{
		factory:   func() any { return factory() },
		ifaces:    ifaces,
		delegates: make(map[any]any),
	}, nil
}

// Interfaces 实现 IntroductionInfo。
func (p *PerTargetIntroduction) Interfaces() []reflect.Type {
	return append([]reflect.Type(nil), p.ifaces...)
}

// ImplementsInterface 实现 IntroductionInterceptor。
func (p *PerTargetIntroduction) ImplementsInterface(t reflect.Type) bool {
	return publishes(p.ifaces, t)
}

// Invoke 引入接口上的方法交给目标对应的委托对象，其它方法继续沿链执行。
func (p *PerTargetIntroduction) Invoke(inv MethodInvocation) ([]any, error) {
	if !p.ImplementsInterface(inv.Method().Owner) {
		return inv.Proceed()
	}
	delegate, err := p.delegateFor(inv.This())
	if err != nil {
		return nil, err
	}
	return invokeDelegate(delegate, inv)
}

// Forget 丢弃 target 对应的委托对象。
func (p *PerTargetIntroduction) Forget(target any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if target != nil && reflect.TypeOf(target).Comparable() {
		delete(p.delegates, target)
	}
}

func (p *PerTargetIntroduction) delegateFor(target any) (any, error) {
	if target == nil || !reflect.TypeOf(target).Comparable() {
		return nil, fmt.Errorf("%w: per-target delegate needs a comparable target, got %T", ErrInvalidIntroduction, target)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.delegates[target]; ok {
		return d, nil
	}
	d := p.factory()
	p.delegates[target] = d
	return d, nil
}
