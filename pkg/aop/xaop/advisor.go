package xaop

import (
	"fmt"
	"math"
	"reflect"
)

// 排序常量，数值越小越先执行（位于拦截器链外层）。
const (
	HighestPrecedence = math.MinInt32
	LowestPrecedence  = math.MaxInt32
)

// Advisor 持有一个 Advice。
type Advisor interface {
	Advice() Advice
}

// PointcutAdvisor 由 Pointcut 决定 Advice 的适用范围。
type PointcutAdvisor interface {
	Advisor
	Pointcut() Pointcut
}

// IntroductionAdvisor 为目标引入额外接口，只按 ClassFilter 过滤。
type IntroductionAdvisor interface {
	Advisor
	ClassFilter() ClassFilter
	Interfaces() []reflect.Type
	ValidateInterfaces() error
}

// Ordered 由需要排序的 Advisor 或 Advice 实现。
type Ordered interface {
	Order() int
}

// Named 由带名字的 Advisor 实现，用于日志和排序覆盖。
type Named interface {
	Name() string
}

// OrderOf 返回 v 的排序值，未实现 Ordered 时为 LowestPrecedence。
func OrderOf(v any) int {
	if o, ok := v.(Ordered); ok {
		return o.Order()
	}
	return LowestPrecedence
}

// AdvisorOption 配置 NewAdvisor 和 NewIntroductionAdvisor。
type AdvisorOption func(*advisorOptions)

type advisorOptions struct {
	order       *int
	name        string
	classFilter ClassFilter
	interfaces  []reflect.Type
}

// WithOrder 设置 Advisor 的排序值，未设置时取 Advice 的 Order()。
func WithOrder(order int) AdvisorOption {
	return func(o *advisorOptions) {
		o.order = &order
	}
}

// WithName 设置 Advisor 名字。
func WithName(name string) AdvisorOption {
	return func(o *advisorOptions) {
		o.name = name
	}
}

// WithClassFilter 设置引入 Advisor 的 ClassFilter。nil 将被忽略。
func WithClassFilter(cf ClassFilter) AdvisorOption {
	return func(o *advisorOptions) {
		if cf != nil {
			o.classFilter = cf
		}
	}
}

// WithInterfaces 显式指定引入的接口。
func WithInterfaces(ifaces ...reflect.Type) AdvisorOption {
	return func(o *advisorOptions) {
		o.interfaces = append(o.interfaces, ifaces...)
	}
}

func applyAdvisorOptions(opts []AdvisorOption) advisorOptions {
	o := advisorOptions{classFilter: ClassFilterTrue}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// DefaultPointcutAdvisor 是最常用的 PointcutAdvisor 实现。
type DefaultPointcutAdvisor struct {
	pointcut Pointcut
	advice   Advice
	opts     advisorOptions
}

var (
	_ PointcutAdvisor = (*DefaultPointcutAdvisor)(nil)
	_ Ordered         = (*DefaultPointcutAdvisor)(nil)
	_ Named           = (*DefaultPointcutAdvisor)(nil)
)

// NewAdvisor 创建 PointcutAdvisor。pc 为 nil 时匹配所有方法。
func NewAdvisor(pc Pointcut, advice Advice, opts ...AdvisorOption) *DefaultPointcutAdvisor {
	if pc == nil {
		pc = PointcutTrue
	}
	return &DefaultPointcutAdvisor{pointcut: pc, advice: advice, opts: applyAdvisorOptions(opts)}
}

// Advice 实现 Advisor。
func (a *DefaultPointcutAdvisor) Advice() Advice { return a.advice }

// Pointcut 实现 PointcutAdvisor。
func (a *DefaultPointcutAdvisor) Pointcut() Pointcut { return a.pointcut }

// Order 返回显式设置的排序值，否则取 Advice 的排序值。
func (a *DefaultPointcutAdvisor) Order() int {
	if a.opts.order != nil {
		return *a.opts.order
	}
	return OrderOf(a.advice)
}

// Name 返回 Advisor 名字。
func (a *DefaultPointcutAdvisor) Name() string { return a.opts.name }

func (a *DefaultPointcutAdvisor) String() string {
	return fmt.Sprintf("DefaultPointcutAdvisor{name=%q, advice=%T}", a.opts.name, a.advice)
}

// DefaultIntroductionAdvisor 把 IntroductionInterceptor 包装为 IntroductionAdvisor。
type DefaultIntroductionAdvisor struct {
	interceptor IntroductionInterceptor
	opts        advisorOptions
}

var (
	_ IntroductionAdvisor = (*DefaultIntroductionAdvisor)(nil)
	_ Ordered             = (*DefaultIntroductionAdvisor)(nil)
)

// NewIntroductionAdvisor 创建引入 Advisor。
//
// 引入的接口取自 WithInterfaces，未指定时取拦截器的 IntroductionInfo。
// 每个接口都必须是接口类型且被拦截器声明实现，否则返回 ErrInvalidIntroduction。
func NewIntroductionAdvisor(ii IntroductionInterceptor, opts ...AdvisorOption) (*DefaultIntroductionAdvisor, error) {
	if ii == nil {
		return nil, ErrNilAdvice
	}
	o := applyAdvisorOptions(opts)
	if len(o.interfaces) == 0 {
		if info, ok := ii.(IntroductionInfo); ok {
			o.interfaces = info.Interfaces()
		}
	}
	a := &DefaultIntroductionAdvisor{interceptor: ii, opts: o}
	if err := a.ValidateInterfaces(); err != nil {
		return nil, err
	}
	return a, nil
}

// Advice 实现 Advisor。
func (a *DefaultIntroductionAdvisor) Advice() Advice { return a.interceptor }

// ClassFilter 实现 IntroductionAdvisor。
func (a *DefaultIntroductionAdvisor) ClassFilter() ClassFilter { return a.opts.classFilter }

// Interfaces 返回引入的接口副本。
func (a *DefaultIntroductionAdvisor) Interfaces() []reflect.Type {
	return append([]reflect.Type(nil), a.opts.interfaces...)
}

// ValidateInterfaces 检查引入的接口是否合法。
func (a *DefaultIntroductionAdvisor) ValidateInterfaces() error {
	if len(a.opts.interfaces) == 0 {
		return fmt.Errorf("%w: no interfaces to introduce", ErrInvalidIntroduction)
	}
	for _, t := range a.opts.interfaces {
		if t == nil || t.Kind() != reflect.Interface {
			return fmt.Errorf("%w: %v is not an interface", ErrInvalidIntroduction, t)
		}
		if !a.interceptor.ImplementsInterface(t) {
			return fmt.Errorf("%w: interceptor does not implement %v", ErrInvalidIntroduction, t)
		}
	}
	return nil
}

// Order 返回排序值。
func (a *DefaultIntroductionAdvisor) Order() int {
	if a.opts.order != nil {
		return *a.opts.order
	}
	return OrderOf(a.interceptor)
}
