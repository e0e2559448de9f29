package xproxy

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Handler 接收 stub 转发的方法调用。
//
// 变参方法把变参部分作为一个切片实参传入。方法签名没有 error 返回值时，
// 链上产生的错误会以 *xaop.UndeclaredError panic，stub 可以忽略返回的 error。
type Handler interface {
	Invoke(method string, args ...any) ([]any, error)
}

// StubFactory 用 Handler 构造一个实现某接口的 stub。
type StubFactory func(h Handler) any

// StubRegistry 按接口类型登记 stub 工厂。
//
// Go 不能在运行期创建新类型，接口代理由预先写好（或生成）的 stub 类型承载：
// stub 的每个方法只是把调用转发给 Handler。一个 stub 可以同时实现多个接口，
// 以承载目标接口加引入接口的组合。并发安全。
type StubRegistry struct {
	mu    sync.RWMutex
	stubs map[reflect.Type]StubFactory
}

// NewStubRegistry 创建空注册表。
func NewStubRegistry() *StubRegistry {
	return &StubRegistry{stubs: make(map[reflect.Type]StubFactory)}
}

var defaultStubs = NewStubRegistry()

// DefaultStubs 返回进程级共享的注册表，通常在 init 中向其注册。
func DefaultStubs() *StubRegistry { return defaultStubs }

// RegisterStub 为接口 I 登记 stub 工厂。重复登记覆盖旧值。
//
//	type greeterStub struct{ h xproxy.Handler }
//
//	func (s greeterStub) Greet(ctx context.Context, name string) (string, error) {
//	    out, err := s.h.Invoke("Greet", ctx, name)
//	    return xproxy.Out[string](out, 0), err
//	}
//
//	func init() {
//	    xproxy.MustRegisterStub(xproxy.DefaultStubs(), func(h xproxy.Handler) Greeter { return greeterStub{h} })
//	}
func RegisterStub[I any](r *StubRegistry, fn func(h Handler) I) error {
	t := reflect.TypeFor[I]()
	if t.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %v", ErrNotInterface, t)
	}
	if fn == nil {
		return ErrNilStub
	}
	r.mu.Lock()
	r.stubs[t] = func(h Handler) any { return fn(h) }
	r.mu.Unlock()
	return nil
}

// MustRegisterStub 与 RegisterStub 相同，失败时 panic。
func MustRegisterStub[I any](r *StubRegistry, fn func(h Handler) I) {
	if err := RegisterStub(r, fn); err != nil {
		panic(err)
	}
}

// Lookup 返回覆盖全部 required 接口、方法数最少的已登记接口及其工厂。
func (r *StubRegistry) Lookup(required []reflect.Type) (reflect.Type, StubFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best    reflect.Type
		factory StubFactory
	)
	for t, f := range r.stubs {
		if !covers(t, required) {
			continue
		}
		if best == nil || t.NumMethod() < best.NumMethod() ||
			(t.NumMethod() == best.NumMethod() && t.String() < best.String()) {
			best, factory = t, f
		}
	}
	return best, factory, best != nil
}

func covers(t reflect.Type, required []reflect.Type) bool {
	for _, req := range required {
		if t != req && !t.Implements(req) {
			return false
		}
	}
	return true
}

// InterfacesOf 返回 t 实现了的已登记接口，按名字排序。
func (r *StubRegistry) InterfacesOf(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []reflect.Type
	for iface := range r.stubs {
		if iface.NumMethod() > 0 && t.Implements(iface) {
			out = append(out, iface)
		}
	}
	slices.SortFunc(out, func(a, b reflect.Type) int { return cmp.Compare(a.String(), b.String()) })
	return out
}

// Out 取第 i 个结果并断言为 T。结果缺失或为 nil 时返回零值。
// 类型不符说明拦截器返回了错误的结果，会 panic。
func Out[T any](out []any, i int) T {
	var zero T
	if i >= len(out) || out[i] == nil {
		return zero
	}
	v, ok := out[i].(T)
	if !ok {
		panic(fmt.Errorf("%w: result %d is %T, want %v", ErrResultType, i, out[i], reflect.TypeFor[T]()))
	}
	return v
}
