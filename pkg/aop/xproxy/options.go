package xproxy

import (
	"log/slog"
	"reflect"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// Option 配置 Config 和 Factory。
type Option func(*options)

type options struct {
	logger           *slog.Logger
	registry         *xaop.AdapterRegistry
	stubs            *StubRegistry
	interfaces       []reflect.Type
	proxyTargetClass bool
	exposeProxy      bool
	classFallback    bool
}

func defaultOptions() options {
	return options{
		logger:        slog.Default(),
		registry:      xaop.DefaultAdapterRegistry(),
		stubs:         DefaultStubs(),
		classFallback: true,
	}
}

// WithLogger 设置日志记录器。默认 slog.Default()，nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAdapterRegistry 设置 Advice 适配器注册表。默认 xaop.DefaultAdapterRegistry()。
func WithAdapterRegistry(r *xaop.AdapterRegistry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithStubs 设置接口代理使用的 stub 注册表。默认 DefaultStubs()。
func WithStubs(r *StubRegistry) Option {
	return func(o *options) {
		if r != nil {
			o.stubs = r
		}
	}
}

// WithInterfaces 指定代理暴露的接口。未指定时从 stub 注册表中探测目标实现的接口。
func WithInterfaces(ifaces ...reflect.Type) Option {
	return func(o *options) {
		o.interfaces = append(o.interfaces, ifaces...)
	}
}

// WithProxyTargetClass 强制使用子类代理。
func WithProxyTargetClass(v bool) Option {
	return func(o *options) {
		o.proxyTargetClass = v
	}
}

// WithExposeProxy 在方法首参 context 中暴露当前代理，供目标内部通过 CurrentProxy 自调用。
func WithExposeProxy(v bool) Option {
	return func(o *options) {
		o.exposeProxy = v
	}
}

// WithClassFallback 设置没有可代理接口时是否回退到子类代理。默认 true。
func WithClassFallback(v bool) Option {
	return func(o *options) {
		o.classFallback = v
	}
}
