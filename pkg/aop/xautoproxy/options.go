package xautoproxy

import (
	"log/slog"

	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xproxy"
)

// DefaultCacheSize 是适用性缓存的默认容量（条目数）。
const DefaultCacheSize = 4096

// TargetSourceFunc 为目标自定义 TargetSource。返回 nil 表示使用固定目标。
type TargetSourceFunc func(name string, target any) xaop.TargetSource

// Option 配置 Creator。
type Option func(*options)

type options struct {
	logger           *slog.Logger
	registry         *xaop.AdapterRegistry
	stubs            *xproxy.StubRegistry
	orderOverrides   map[string]int
	proxyTargetClass bool
	exposeProxy      bool
	freeze           bool
	classFallback    bool
	cacheSize        int
	targetSource     TargetSourceFunc
}

func defaultOptions() options {
	return options{
		logger:        slog.Default(),
		classFallback: true,
		cacheSize:     DefaultCacheSize,
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

// WithAdapterRegistry 设置生成代理时使用的 Advice 适配器注册表。
func WithAdapterRegistry(r *xaop.AdapterRegistry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithStubs 设置生成接口代理时使用的 stub 注册表。
func WithStubs(r *xproxy.StubRegistry) Option {
	return func(o *options) {
		o.stubs = r
	}
}

// WithOrderOverrides 按 Advisor 名字覆盖顺序值，优先于 Advisor 自身的顺序。
func WithOrderOverrides(overrides map[string]int) Option {
	return func(o *options) {
		if o.orderOverrides == nil {
			o.orderOverrides = make(map[string]int, len(overrides))
		}
		for k, v := range overrides {
			o.orderOverrides[k] = v
		}
	}
}

// WithProxyTargetClass 强制生成子类代理。
func WithProxyTargetClass(v bool) Option {
	return func(o *options) {
		o.proxyTargetClass = v
	}
}

// WithExposeProxy 为生成的代理开启暴露当前代理。
func WithExposeProxy(v bool) Option {
	return func(o *options) {
		o.exposeProxy = v
	}
}

// WithFreeze 生成代理后冻结其配置。
func WithFreeze(v bool) Option {
	return func(o *options) {
		o.freeze = v
	}
}

// WithClassFallback 设置没有可代理接口时是否回退到子类代理。默认 true。
func WithClassFallback(v bool) Option {
	return func(o *options) {
		o.classFallback = v
	}
}

// WithCacheSize 设置适用性缓存容量。默认 DefaultCacheSize。
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithTargetSource 为目标自定义 TargetSource（如对象池、可热替换目标）。
func WithTargetSource(fn TargetSourceFunc) Option {
	return func(o *options) {
		o.targetSource = fn
	}
}
