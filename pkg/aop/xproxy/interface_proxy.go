package xproxy

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/omeyang/xaop/internal/typeinfo"
	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// interfaceProxy 通过登记的 stub 生成实现代理接口的对象。
type interfaceProxy struct {
	cfg      *Config
	ifaces   []reflect.Type
	methods  map[string]xaop.Method
	stubType reflect.Type
	newStub  StubFactory
}

func newInterfaceProxy(cfg *Config, ifaces []reflect.Type, stubs *StubRegistry) (*interfaceProxy, error) {
	for _, t := range ifaces {
		if t == nil || t.Kind() != reflect.Interface {
			return nil, fmt.Errorf("%w: %v", ErrNotInterface, t)
		}
	}
	targetType := cfg.TargetSource().TargetType()
	introduced := cfg.introducedInterfaces(targetType)
	for _, t := range ifaces {
		if slices.Contains(introduced, t) || targetType == nil {
			continue
		}
		if targetType != t && !targetType.Implements(t) {
			return nil, fmt.Errorf("%w: %v does not implement %v", ErrTargetMismatch, targetType, t)
		}
	}

	stubType, factory, ok := stubs.Lookup(ifaces)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoStub, ifaces)
	}

	// 同名方法以先出现的接口为准：引入接口排在目标接口之后。
	methods := make(map[string]xaop.Method)
	for _, t := range ifaces {
		for _, m := range xaop.MethodsOf(t) {
			if _, dup := methods[m.Name]; !dup {
				methods[m.Name] = m
			}
		}
	}
	return &interfaceProxy{cfg: cfg, ifaces: ifaces, methods: methods, stubType: stubType, newStub: factory}, nil
}

func (p *interfaceProxy) Proxy() (any, error) {
	h := &stubHandler{d: &dispatcher{cfg: p.cfg}, methods: p.methods}
	stub := p.newStub(h)
	if stub == nil {
		return nil, fmt.Errorf("%w: factory for %v returned nil", ErrNoStub, p.stubType)
	}
	st := reflect.TypeOf(stub)
	for _, t := range p.ifaces {
		if !st.Implements(t) {
			return nil, fmt.Errorf("%w: stub %v does not implement %v", ErrNoStub, st, t)
		}
	}
	h.d.proxy = stub
	p.cfg.Logger().Debug("xproxy: interface proxy created",
		"target", typeinfo.FullName(p.cfg.TargetSource().TargetType()),
		"stub", st.String(),
		"interfaces", len(p.ifaces))
	return stub, nil
}

func (p *interfaceProxy) methodSet() []xaop.Method {
	out := make([]xaop.Method, 0, len(p.methods))
	for _, m := range p.methods {
		out = append(out, m)
	}
	return out
}

// stubHandler 把 stub 调用转为 dispatcher 调用，并在边界处理未声明的错误。
type stubHandler struct {
	d       *dispatcher
	methods map[string]xaop.Method
}

func (h *stubHandler) Invoke(name string, args ...any) ([]any, error) {
	m, ok := h.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotExposed, name)
	}
	if n := m.Type.NumIn(); n != len(args) {
		return nil, fmt.Errorf("%w: %s wants %d arguments, got %d", xaop.ErrArgumentMismatch, m, n, len(args))
	}
	out, err := h.d.invoke(m, args)
	if err != nil && !m.ReturnsError() {
		panic(&xaop.UndeclaredError{Method: m, Cause: err})
	}
	return out, err
}
