package xproxy

import (
	"context"
	"fmt"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

type (
	proxyKey      struct{}
	invocationKey struct{}
)

func withProxy(ctx context.Context, proxy any) context.Context {
	return context.WithValue(ctx, proxyKey{}, proxy)
}

func withInvocation(ctx context.Context, inv xaop.MethodInvocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

// CurrentProxy 返回当前调用所经过的代理。
//
// 只有在代理开启 WithExposeProxy、且被调用方法首参为 context.Context 时，
// 目标方法收到的 context 才携带代理；否则返回 ErrNoCurrentProxy。
// 嵌套代理调用各自携带自己的代理，返回外层后自动恢复。
func CurrentProxy(ctx context.Context) (any, error) {
	if ctx != nil {
		if p := ctx.Value(proxyKey{}); p != nil {
			return p, nil
		}
	}
	return nil, ErrNoCurrentProxy
}

// ProxyFrom 返回类型为 T 的当前代理。
//
//	func (s *orderService) Place(ctx context.Context, o Order) error {
//	    self, err := xproxy.ProxyFrom[OrderService](ctx)
//	    if err != nil {
//	        return err
//	    }
//	    return self.Audit(ctx, o) // 经过代理，通知生效
//	}
func ProxyFrom[T any](ctx context.Context) (T, error) {
	var zero T
	p, err := CurrentProxy(ctx)
	if err != nil {
		return zero, err
	}
	v, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("%w: current proxy is %T", ErrProxyType, p)
	}
	return v, nil
}

// CurrentInvocation 返回正在执行的调用。只在经过非空拦截器链、
// 且方法首参为 context.Context 的调用中可用。
func CurrentInvocation(ctx context.Context) (xaop.MethodInvocation, bool) {
	if ctx == nil {
		return nil, false
	}
	inv, ok := ctx.Value(invocationKey{}).(xaop.MethodInvocation)
	return inv, ok
}
