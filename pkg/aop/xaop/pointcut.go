package xaop

import "reflect"

// ClassFilter 判断切点是否适用于某个目标类型。
type ClassFilter interface {
	Matches(t reflect.Type) bool
}

// ClassFilterFunc 让普通函数实现 ClassFilter。
type ClassFilterFunc func(t reflect.Type) bool

// Matches 实现 ClassFilter。
func (f ClassFilterFunc) Matches(t reflect.Type) bool { return f(t) }

// MethodMatcher 判断切点是否适用于某个方法。
//
// 静态匹配 Matches 的结果可以缓存。IsRuntime 为 true 时，静态匹配通过后
// 每次调用还要用实参执行 MatchesArgs，结果不缓存。
type MethodMatcher interface {
	Matches(m Method, t reflect.Type) bool
	IsRuntime() bool
	MatchesArgs(m Method, t reflect.Type, args []any) bool
}

// Pointcut 由 ClassFilter 和 MethodMatcher 组成。
type Pointcut interface {
	ClassFilter() ClassFilter
	MethodMatcher() MethodMatcher
}

type trueClassFilter struct{}

func (trueClassFilter) Matches(reflect.Type) bool { return true }
func (trueClassFilter) String() string            { return "ClassFilter.TRUE" }

type trueMethodMatcher struct{}

func (trueMethodMatcher) Matches(Method, reflect.Type) bool             { return true }
func (trueMethodMatcher) IsRuntime() bool                               { return false }
func (trueMethodMatcher) MatchesArgs(Method, reflect.Type, []any) bool { return true }
func (trueMethodMatcher) String() string                                { return "MethodMatcher.TRUE" }

type truePointcut struct{}

func (truePointcut) ClassFilter() ClassFilter     { return ClassFilterTrue }
func (truePointcut) MethodMatcher() MethodMatcher { return MethodMatcherTrue }
func (truePointcut) String() string               { return "Pointcut.TRUE" }

var (
	// ClassFilterTrue 匹配所有类型。
	ClassFilterTrue ClassFilter = trueClassFilter{}

	// MethodMatcherTrue 静态匹配所有方法。
	MethodMatcherTrue MethodMatcher = trueMethodMatcher{}

	// PointcutTrue 匹配所有类型的所有方法。
	PointcutTrue Pointcut = truePointcut{}
)

// StaticMatcherFunc 用函数实现静态 MethodMatcher。
type StaticMatcherFunc func(m Method, t reflect.Type) bool

// Matches 实现 MethodMatcher。
func (f StaticMatcherFunc) Matches(m Method, t reflect.Type) bool { return f(m, t) }

// IsRuntime 总是返回 false。
func (StaticMatcherFunc) IsRuntime() bool { return false }

// MatchesArgs 静态匹配器不会在运行时被询问，这里退化为静态结果。
func (f StaticMatcherFunc) MatchesArgs(m Method, t reflect.Type, _ []any) bool { return f(m, t) }

// DynamicMatcherFunc 用函数实现运行时 MethodMatcher，静态阶段总是通过。
type DynamicMatcherFunc func(m Method, t reflect.Type, args []any) bool

// Matches 静态阶段总是返回 true。
func (DynamicMatcherFunc) Matches(Method, reflect.Type) bool { return true }

// IsRuntime 总是返回 true。
func (DynamicMatcherFunc) IsRuntime() bool { return true }

// MatchesArgs 实现 MethodMatcher。
func (f DynamicMatcherFunc) MatchesArgs(m Method, t reflect.Type, args []any) bool {
	return f(m, t, args)
}

type pointcut struct {
	cf ClassFilter
	mm MethodMatcher
}

func (p pointcut) ClassFilter() ClassFilter     { return p.cf }
func (p pointcut) MethodMatcher() MethodMatcher { return p.mm }

// NewPointcut 组合 ClassFilter 和 MethodMatcher，nil 分量按"全部匹配"处理。
func NewPointcut(cf ClassFilter, mm MethodMatcher) Pointcut {
	if cf == nil {
		cf = ClassFilterTrue
	}
	if mm == nil {
		mm = MethodMatcherTrue
	}
	return pointcut{cf: cf, mm: mm}
}
