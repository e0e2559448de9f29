package xaop

import (
	"context"
	"errors"
)

// Advice 是任意一种通知：MethodInterceptor、BeforeAdvice、AfterReturningAdvice、
// ThrowsAdvice 或 IntroductionInterceptor。
//
// 非环绕通知由 AdapterRegistry 转换为 MethodInterceptor 后进入拦截器链。
type Advice = any

// MethodInterceptor 是环绕通知，决定是否以及何时调用 inv.Proceed()。
type MethodInterceptor interface {
	Invoke(inv MethodInvocation) ([]any, error)
}

// MethodInterceptorFunc 让普通函数实现 MethodInterceptor。
type MethodInterceptorFunc func(inv MethodInvocation) ([]any, error)

// Invoke 实现 MethodInterceptor。
func (f MethodInterceptorFunc) Invoke(inv MethodInvocation) ([]any, error) { return f(inv) }

// BeforeAdvice 在连接点之前执行。返回错误将中止调用，错误直接返回给调用方。
// args 是本次调用的实参切片，修改其元素会影响后续拦截器和目标方法。
type BeforeAdvice interface {
	Before(ctx context.Context, m Method, args []any, target any) error
}

// BeforeAdviceFunc 让普通函数实现 BeforeAdvice。
type BeforeAdviceFunc func(ctx context.Context, m Method, args []any, target any) error

// Before 实现 BeforeAdvice。
func (f BeforeAdviceFunc) Before(ctx context.Context, m Method, args []any, target any) error {
	return f(ctx, m, args, target)
}

// AfterReturningAdvice 仅在连接点正常返回后执行。返回错误会替换原结果。
type AfterReturningAdvice interface {
	AfterReturning(ctx context.Context, results []any, m Method, args []any, target any) error
}

// AfterReturningAdviceFunc 让普通函数实现 AfterReturningAdvice。
type AfterReturningAdviceFunc func(ctx context.Context, results []any, m Method, args []any, target any) error

// AfterReturning 实现 AfterReturningAdvice。
func (f AfterReturningAdviceFunc) AfterReturning(ctx context.Context, results []any, m Method, args []any, target any) error {
	return f(ctx, results, m, args, target)
}

// ThrowsAdvice 仅在连接点返回错误后执行。
// 返回 nil 表示原错误继续传播；返回非 nil 则替换原错误。
type ThrowsAdvice interface {
	AfterThrowing(ctx context.Context, m Method, args []any, target any, err error) error
}

// ThrowsAdviceFunc 让普通函数实现 ThrowsAdvice。
type ThrowsAdviceFunc func(ctx context.Context, m Method, args []any, target any, err error) error

// AfterThrowing 实现 ThrowsAdvice。
func (f ThrowsAdviceFunc) AfterThrowing(ctx context.Context, m Method, args []any, target any, err error) error {
	return f(ctx, m, args, target, err)
}

// ThrowsFor 构造只处理特定错误类型 E 的 ThrowsAdvice。
// 错误链中没有 E 时 fn 不会被调用，原错误继续传播。
//
//	xaop.ThrowsFor(func(ctx context.Context, m xaop.Method, args []any, target any, e *net.OpError) error {
//	    return fmt.Errorf("network: %w", e)
//	})
func ThrowsFor[E error](fn func(ctx context.Context, m Method, args []any, target any, e E) error) ThrowsAdvice {
	return ThrowsAdviceFunc(func(ctx context.Context, m Method, args []any, target any, err error) error {
		var e E
		if !errors.As(err, &e) {
			return nil
		}
		return fn(ctx, m, args, target, e)
	})
}
