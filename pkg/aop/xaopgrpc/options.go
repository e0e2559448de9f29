package xaopgrpc

import (
	"log/slog"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// Option 配置 Interceptor。
type Option func(*options)

type options struct {
	logger   *slog.Logger
	registry *xaop.AdapterRegistry
	mapper   ErrorMapper
	skip     func(fullMethod string) bool
}

func defaultOptions() options {
	return options{
		logger:   slog.Default(),
		registry: xaop.DefaultAdapterRegistry(),
		mapper:   DefaultErrorMapper,
	}
}

// WithLogger 设置日志记录器，nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAdapterRegistry 设置 Advice 适配器注册表，nil 将被忽略。
func WithAdapterRegistry(r *xaop.AdapterRegistry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithErrorMapper 设置错误转换函数。nil 表示原样返回链的错误。
func WithErrorMapper(fn ErrorMapper) Option {
	return func(o *options) {
		if fn == nil {
			fn = func(err error) error { return err }
		}
		o.mapper = fn
	}
}

// WithSkip 设置跳过函数，返回 true 的方法不经过链。
func WithSkip(fn func(fullMethod string) bool) Option {
	return func(o *options) { o.skip = fn }
}
