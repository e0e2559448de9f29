package xproxy

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xtarget"
)

// AopProxy 根据配置生成代理对象。每次调用 Proxy 都返回新的代理实例。
type AopProxy interface {
	Proxy() (any, error)
}

// AopProxyFactory 为配置选择并创建 AopProxy。
type AopProxyFactory interface {
	CreateAopProxy(cfg *Config) (AopProxy, error)
}

// DefaultAopProxyFactory 按以下规则选择代理方式：
//
//   - 未强制子类代理且有接口：接口代理
//   - 目标类型本身是接口：接口代理
//   - 否则（强制子类代理，或没有接口且允许回退）：子类代理
//   - 没有接口且禁止回退：ErrNoInterfaces
//
// 目标来源为静态时，创建阶段会为每个方法预先构建拦截器链，配置错误在此暴露。
type DefaultAopProxyFactory struct {
	Stubs *StubRegistry
}

var _ AopProxyFactory = DefaultAopProxyFactory{}

// CreateAopProxy 实现 AopProxyFactory。
func (f DefaultAopProxyFactory) CreateAopProxy(cfg *Config) (AopProxy, error) {
	stubs := f.Stubs
	if stubs == nil {
		stubs = cfg.opts.stubs
	}
	ifaces := cfg.Interfaces()
	targetType := cfg.TargetSource().TargetType()

	var (
		p       proxy
		err     error
		useStub = !cfg.ProxyTargetClass() && len(ifaces) > 0
	)
	switch {
	case useStub:
		p, err = newInterfaceProxy(cfg, ifaces, stubs)
	case targetType != nil && targetType.Kind() == reflect.Interface:
		if !slices.Contains(ifaces, targetType) {
			ifaces = append([]reflect.Type{targetType}, ifaces...)
		}
		p, err = newInterfaceProxy(cfg, ifaces, stubs)
	case !cfg.ProxyTargetClass() && !cfg.ClassFallback():
		return nil, fmt.Errorf("%w: target %v", ErrNoInterfaces, targetType)
	default:
		p, err = newClassProxy(cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := prebuild(cfg, p, targetType); err != nil {
		return nil, err
	}
	return p, nil
}

type proxy interface {
	AopProxy
	methodSet() []xaop.Method
}

func prebuild(cfg *Config, p proxy, class reflect.Type) error {
	if !cfg.TargetSource().IsStatic() {
		return nil
	}
	for _, m := range p.methodSet() {
		if _, err := cfg.Interceptors(m, class); err != nil {
			return fmt.Errorf("build chain for %s: %w", m, err)
		}
	}
	return nil
}

// Factory 是代理的编程式构建入口：持有 Config，并用 AopProxyFactory 生成代理。
//
//	f := xproxy.NewFactory(&orderService{})
//	_ = f.AddAdvice(xadvice.NewLogging(logger))
//	svc, err := xproxy.ProxyOf[OrderService](f)
type Factory struct {
	*Config
	aop AopProxyFactory
}

// NewFactory 以固定目标创建 Factory。
func NewFactory(target any, opts ...Option) *Factory {
	return NewFactoryFor(xtarget.NewSingleton(target), opts...)
}

// NewFactoryFor 以任意目标来源创建 Factory。
//
// 未通过 WithInterfaces 指定接口且未强制子类代理时，
// 从 stub 注册表中探测目标类型实现的接口。
func NewFactoryFor(ts xaop.TargetSource, opts ...Option) *Factory {
	cfg := NewConfig(ts, opts...)
	if len(cfg.ifaces) == 0 && !cfg.ProxyTargetClass() {
		if tt := cfg.ts.TargetType(); tt != nil && tt.Kind() != reflect.Interface {
			cfg.ifaces = cfg.opts.stubs.InterfacesOf(tt)
		}
	}
	return &Factory{Config: cfg, aop: DefaultAopProxyFactory{}}
}

// SetAopProxyFactory 替换代理生成策略，nil 恢复默认。
func (f *Factory) SetAopProxyFactory(apf AopProxyFactory) {
	if apf == nil {
		apf = DefaultAopProxyFactory{}
	}
	f.aop = apf
}

// Proxy 创建新的代理对象。
func (f *Factory) Proxy() (any, error) {
	ap, err := f.aop.CreateAopProxy(f.Config)
	if err != nil {
		return nil, err
	}
	return ap.Proxy()
}

// ProxyOf 创建代理并断言为 T。
func ProxyOf[T any](f *Factory) (T, error) {
	var zero T
	p, err := f.Proxy()
	if err != nil {
		return zero, err
	}
	v, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %v", ErrProxyType, p, reflect.TypeFor[T]())
	}
	return v, nil
}

// Wrap 用给定的 Advice 代理 target，返回类型为 T 的代理。
//
// T 为接口时生成接口代理（需已登记 T 的 stub），否则生成子类代理。
func Wrap[T any](target T, advice ...xaop.Advice) (T, error) {
	var zero T
	var opt Option
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Interface {
		opt = WithInterfaces(t)
	} else {
		opt = WithProxyTargetClass(true)
	}
	f := NewFactory(target, opt)
	for _, a := range advice {
		if err := f.AddAdvice(a); err != nil {
			return zero, err
		}
	}
	return ProxyOf[T](f)
}
