package xproxy

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// dispatcher 是两种代理共享的调用入口：取目标、取链、执行、归还目标。
type dispatcher struct {
	cfg   *Config
	proxy any
}

func (d *dispatcher) invoke(m xaop.Method, args []any) ([]any, error) {
	cfg := d.cfg
	hasCtx := m.HasContext() && len(args) > 0

	ctx := context.Background()
	if hasCtx {
		if c, ok := args[0].(context.Context); ok && c != nil {
			ctx = c
		}
	}
	if cfg.ExposeProxy() {
		ctx = withProxy(ctx, d.proxy)
	}

	ts := cfg.TargetSource()
	target, err := ts.Target(ctx)
	if err != nil {
		return nil, err
	}
	if !ts.IsStatic() {
		defer d.release(ts, target)
	}

	class := ts.TargetType()
	if target != nil {
		class = reflect.TypeOf(target)
	}
	chain, err := cfg.Interceptors(m, class)
	if err != nil {
		return nil, err
	}

	var out []any
	if len(chain) == 0 {
		if hasCtx {
			args[0] = ctx
		}
		out, err = xaop.Invoke(target, m, args)
	} else {
		inv := newInvocation(ctx, d.proxy, target, class, m, args, chain, nil)
		if hasCtx {
			inv.ctx = withInvocation(ctx, inv)
			args[0] = inv.ctx
		}
		out, err = inv.Proceed()
	}
	return d.replaceTarget(out, target, m), err
}

func (d *dispatcher) release(ts xaop.TargetSource, target any) {
	if err := ts.Release(target); err != nil {
		d.cfg.Logger().Warn("xproxy: release target failed",
			slog.String("target", fmt.Sprintf("%T", target)),
			slog.Any("error", err))
	}
}

// replaceTarget 把结果中与裸目标相同的对象替换为代理，调用方不会拿到未被代理的目标。
func (d *dispatcher) replaceTarget(out []any, target any, m xaop.Method) []any {
	if target == nil || d.proxy == nil || m.Type == nil {
		return out
	}
	proxyType := reflect.TypeOf(d.proxy)
	for i, v := range out {
		if i < m.NumResults() && xaop.SameObject(v, target) && proxyType.AssignableTo(m.Type.Out(i)) {
			out[i] = d.proxy
		}
	}
	return out
}
