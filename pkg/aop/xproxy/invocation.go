package xproxy

import (
	"context"
	"maps"
	"reflect"
	"slices"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// JoinpointFunc 执行连接点本身。nil 表示通过反射在目标对象上调用方法。
type JoinpointFunc func(ctx context.Context, args []any) ([]any, error)

// invocation 是 xaop.MethodInvocation 的实现，也是拦截器链的执行引擎。
//
// cursor 从 -1 开始，每次 Proceed 前进一格；等于链长时执行连接点。
// 一次调用只属于一个 goroutine。
type invocation struct {
	ctx       context.Context
	proxy     any
	target    any
	class     reflect.Type
	method    xaop.Method
	args      []any
	chain     Chain
	cursor    int
	joinpoint JoinpointFunc
	attrs     map[string]any
	proceeds  int
}

var _ xaop.MethodInvocation = (*invocation)(nil)

// NewInvocation 创建一个独立的调用，供代理之外的传输层（如 gRPC 拦截器）复用拦截器链引擎。
// jp 为 nil 时连接点是对 target 的反射调用。
func NewInvocation(ctx context.Context, proxy, target any, m xaop.Method, args []any, chain Chain, jp JoinpointFunc) xaop.MethodInvocation {
	var class reflect.Type
	if target != nil {
		class = reflect.TypeOf(target)
	}
	return newInvocation(ctx, proxy, target, class, m, args, chain, jp)
}

func newInvocation(ctx context.Context, proxy, target any, class reflect.Type, m xaop.Method, args []any,
	chain Chain, jp JoinpointFunc) *invocation {
	if ctx == nil {
		ctx = context.Background()
	}
	return &invocation{
		ctx:       ctx,
		proxy:     proxy,
		target:    target,
		class:     class,
		method:    m,
		args:      args,
		chain:     chain,
		cursor:    -1,
		joinpoint: jp,
	}
}

func (inv *invocation) Context() context.Context {
	if inv.method.HasContext() && len(inv.args) > 0 {
		if ctx, ok := inv.args[0].(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return inv.ctx
}

func (inv *invocation) Method() xaop.Method { return inv.method }

func (inv *invocation) Arguments() []any { return inv.args }

func (inv *invocation) SetArguments(args ...any) { inv.args = args }

func (inv *invocation) This() any { return inv.target }

func (inv *invocation) Proxy() any { return inv.proxy }

func (inv *invocation) Proceed() ([]any, error) {
	inv.proceeds++
	if inv.cursor >= len(inv.chain) {
		return nil, ErrInvocationCompleted
	}
	inv.cursor++
	if inv.cursor == len(inv.chain) {
		return inv.invokeJoinpoint()
	}
	link := inv.chain[inv.cursor]
	if link.Matcher != nil && !link.Matcher.MatchesArgs(inv.method, inv.class, inv.args) {
		return inv.Proceed()
	}
	return link.Interceptor.Invoke(inv)
}

func (inv *invocation) invokeJoinpoint() ([]any, error) {
	if inv.joinpoint != nil {
		return inv.joinpoint(inv.Context(), inv.args)
	}
	return xaop.Invoke(inv.target, inv.method, inv.args)
}

// Clone 复制当前调用。副本与原调用共享链和目标，拥有独立的实参、属性和游标。
func (inv *invocation) Clone() xaop.MethodInvocation {
	c := *inv
	c.args = slices.Clone(inv.args)
	c.attrs = maps.Clone(inv.attrs)
	c.proceeds = 0
	return &c
}

func (inv *invocation) Attribute(key string) (any, bool) {
	v, ok := inv.attrs[key]
	return v, ok
}

func (inv *invocation) SetAttribute(key string, value any) {
	if inv.attrs == nil {
		inv.attrs = make(map[string]any)
	}
	inv.attrs[key] = value
}
