package xaop

import (
	"fmt"
	"sync"
)

// AdvisorAdapter 把某类非环绕 Advice 转换为 MethodInterceptor。
type AdvisorAdapter interface {
	SupportsAdvice(advice Advice) bool
	Interceptor(a Advisor) MethodInterceptor
}

// AdapterRegistry 维护 AdvisorAdapter 列表，负责 Advice 到拦截器的转换。
//
// 内置 before、after-returning、throws 三种适配器；可通过 Register 扩展。
// 并发安全。
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters []AdvisorAdapter
}

// NewAdapterRegistry 创建只包含内置适配器的注册表。
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: []AdvisorAdapter{beforeAdapter{}, afterReturningAdapter{}, throwsAdapter{}},
	}
}

var defaultRegistry = NewAdapterRegistry()

// DefaultAdapterRegistry 返回进程级共享的注册表。
func DefaultAdapterRegistry() *AdapterRegistry { return defaultRegistry }

// Register 追加适配器，nil 将被忽略。
func (r *AdapterRegistry) Register(a AdvisorAdapter) {
	if a == nil {
		return
	}
	r.mu.Lock()
	r.adapters = append(r.adapters, a)
	r.mu.Unlock()
}

// Wrap 把 Advice 包装为 Advisor。
//
// 已经是 Advisor 的原样返回；带 IntroductionInfo 的引入拦截器包装为引入 Advisor；
// 其它可适配的 Advice 包装为匹配所有方法的 PointcutAdvisor。
func (r *AdapterRegistry) Wrap(advice Advice) (Advisor, error) {
	switch a := advice.(type) {
	case nil:
		return nil, ErrNilAdvice
	case Advisor:
		return a, nil
	case IntroductionInterceptor:
		if _, ok := a.(IntroductionInfo); !ok {
			return nil, fmt.Errorf("%w: %T does not publish its interfaces", ErrInvalidIntroduction, a)
		}
		return NewIntroductionAdvisor(a)
	case MethodInterceptor:
		return NewAdvisor(PointcutTrue, a), nil
	}
	if !r.supports(advice) {
		return nil, fmt.Errorf("%w: %T", ErrUnknownAdviceType, advice)
	}
	return NewAdvisor(PointcutTrue, advice), nil
}

// Interceptors 返回 Advisor 对应的拦截器。
// Advice 同时实现多种形态时返回多个拦截器，顺序为环绕在前、适配器注册顺序在后。
func (r *AdapterRegistry) Interceptors(a Advisor) ([]MethodInterceptor, error) {
	if a == nil || a.Advice() == nil {
		return nil, ErrNilAdvice
	}
	advice := a.Advice()
	var out []MethodInterceptor
	if mi, ok := advice.(MethodInterceptor); ok {
		out = append(out, mi)
	}
	r.mu.RLock()
	for _, ad := range r.adapters {
		if ad.SupportsAdvice(advice) {
			out = append(out, ad.Interceptor(a))
		}
	}
	r.mu.RUnlock()
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %T", ErrUnknownAdviceType, advice)
	}
	return out, nil
}

func (r *AdapterRegistry) supports(advice Advice) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ad := range r.adapters {
		if ad.SupportsAdvice(advice) {
			return true
		}
	}
	return false
}

// ============================================================================
// 内置适配器
// ============================================================================

type beforeAdapter struct{}

func (beforeAdapter) SupportsAdvice(advice Advice) bool {
	_, ok := advice.(BeforeAdvice)
	return ok
}

func (beforeAdapter) Interceptor(a Advisor) MethodInterceptor {
	return &beforeInterceptor{advice: a.Advice().(BeforeAdvice)}
}

type beforeInterceptor struct {
	advice BeforeAdvice
}

func (i *beforeInterceptor) Invoke(inv MethodInvocation) ([]any, error) {
	if err := i.advice.Before(inv.Context(), inv.Method(), inv.Arguments(), inv.This()); err != nil {
		return nil, err
	}
	return inv.Proceed()
}

type afterReturningAdapter struct{}

func (afterReturningAdapter) SupportsAdvice(advice Advice) bool {
	_, ok := advice.(AfterReturningAdvice)
	return ok
}

func (afterReturningAdapter) Interceptor(a Advisor) MethodInterceptor {
	return &afterReturningInterceptor{advice: a.Advice().(AfterReturningAdvice)}
}

type afterReturningInterceptor struct {
	advice AfterReturningAdvice
}

func (i *afterReturningInterceptor) Invoke(inv MethodInvocation) ([]any, error) {
	out, err := inv.Proceed()
	if err != nil {
		return out, err
	}
	if aerr := i.advice.AfterReturning(inv.Context(), out, inv.Method(), inv.Arguments(), inv.This()); aerr != nil {
		return nil, aerr
	}
	return out, nil
}

type throwsAdapter struct{}

func (throwsAdapter) SupportsAdvice(advice Advice) bool {
	_, ok := advice.(ThrowsAdvice)
	return ok
}

func (throwsAdapter) Interceptor(a Advisor) MethodInterceptor {
	return &throwsInterceptor{advice: a.Advice().(ThrowsAdvice)}
}

type throwsInterceptor struct {
	advice ThrowsAdvice
}

func (i *throwsInterceptor) Invoke(inv MethodInvocation) ([]any, error) {
	out, err := inv.Proceed()
	if err == nil {
		return out, nil
	}
	if herr := i.advice.AfterThrowing(inv.Context(), inv.Method(), inv.Arguments(), inv.This(), err); herr != nil {
		return out, herr
	}
	return out, err
}
