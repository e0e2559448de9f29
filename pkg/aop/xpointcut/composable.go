package xpointcut

import (
	"reflect"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// Composable 是可组合的切点。每个组合方法返回新的 Composable，原值不变。
type Composable struct {
	cf xaop.ClassFilter
	mm xaop.MethodMatcher
}

var _ xaop.Pointcut = (*Composable)(nil)

// NewComposable 以 pc 为起点创建可组合切点，nil 表示匹配全部。
func NewComposable(pc xaop.Pointcut) *Composable {
	if pc == nil {
		pc = xaop.PointcutTrue
	}
	return &Composable{cf: pc.ClassFilter(), mm: pc.MethodMatcher()}
}

// ClassFilter 实现 xaop.Pointcut。
func (c *Composable) ClassFilter() xaop.ClassFilter { return c.cf }

// MethodMatcher 实现 xaop.Pointcut。
func (c *Composable) MethodMatcher() xaop.MethodMatcher { return c.mm }

// UnionClassFilter 返回类型过滤取并集后的切点。
func (c *Composable) UnionClassFilter(cf xaop.ClassFilter) *Composable {
	return &Composable{cf: UnionClassFilter(c.cf, cf), mm: c.mm}
}

// IntersectClassFilter 返回类型过滤取交集后的切点。
func (c *Composable) IntersectClassFilter(cf xaop.ClassFilter) *Composable {
	return &Composable{cf: IntersectClassFilter(c.cf, cf), mm: c.mm}
}

// UnionMethodMatcher 返回方法匹配取并集后的切点。
func (c *Composable) UnionMethodMatcher(mm xaop.MethodMatcher) *Composable {
	return &Composable{cf: c.cf, mm: UnionMatcher(c.mm, mm)}
}

// IntersectMethodMatcher 返回方法匹配取交集后的切点。
func (c *Composable) IntersectMethodMatcher(mm xaop.MethodMatcher) *Composable {
	return &Composable{cf: c.cf, mm: IntersectMatcher(c.mm, mm)}
}

// Union 与另一个切点取并集。
// 每个切点的方法匹配器只对自己的类型过滤范围生效。
func (c *Composable) Union(pc xaop.Pointcut) *Composable {
	return &Composable{
		cf: UnionClassFilter(c.cf, pc.ClassFilter()),
		mm: classAwareUnion{a: c.mm, cfa: c.cf, b: pc.MethodMatcher(), cfb: pc.ClassFilter()},
	}
}

// Intersect 与另一个切点取交集。
func (c *Composable) Intersect(pc xaop.Pointcut) *Composable {
	return &Composable{
		cf: IntersectClassFilter(c.cf, pc.ClassFilter()),
		mm: IntersectMatcher(c.mm, pc.MethodMatcher()),
	}
}

// ============================================================================
// MethodMatcher 组合
// ============================================================================

// fullMatch 对单个匹配器做完整判断：静态通过且（若为运行时匹配器）实参通过。
func fullMatch(mm xaop.MethodMatcher, m xaop.Method, t reflect.Type, args []any) bool {
	if !mm.Matches(m, t) {
		return false
	}
	return !mm.IsRuntime() || mm.MatchesArgs(m, t, args)
}

// UnionMatcher 返回任一匹配器命中即命中的匹配器。
func UnionMatcher(a, b xaop.MethodMatcher) xaop.MethodMatcher {
	return unionMatcher{a: a, b: b}
}

type unionMatcher struct {
	a, b xaop.MethodMatcher
}

func (u unionMatcher) Matches(m xaop.Method, t reflect.Type) bool {
	return u.a.Matches(m, t) || u.b.Matches(m, t)
}

func (u unionMatcher) IsRuntime() bool { return u.a.IsRuntime() || u.b.IsRuntime() }

func (u unionMatcher) MatchesArgs(m xaop.Method, t reflect.Type, args []any) bool {
	return fullMatch(u.a, m, t, args) || fullMatch(u.b, m, t, args)
}

// IntersectMatcher 返回全部匹配器命中才命中的匹配器。
func IntersectMatcher(a, b xaop.MethodMatcher) xaop.MethodMatcher {
	return intersectMatcher{a: a, b: b}
}

type intersectMatcher struct {
	a, b xaop.MethodMatcher
}

func (i intersectMatcher) Matches(m xaop.Method, t reflect.Type) bool {
	return i.a.Matches(m, t) && i.b.Matches(m, t)
}

func (i intersectMatcher) IsRuntime() bool { return i.a.IsRuntime() || i.b.IsRuntime() }

func (i intersectMatcher) MatchesArgs(m xaop.Method, t reflect.Type, args []any) bool {
	return fullMatch(i.a, m, t, args) && fullMatch(i.b, m, t, args)
}

type classAwareUnion struct {
	a, b     xaop.MethodMatcher
	cfa, cfb xaop.ClassFilter
}

func inClass(cf xaop.ClassFilter, t reflect.Type) bool {
	return t == nil || cf.Matches(t)
}

func (u classAwareUnion) Matches(m xaop.Method, t reflect.Type) bool {
	return (inClass(u.cfa, t) && u.a.Matches(m, t)) ||
		(inClass(u.cfb, t) && u.b.Matches(m, t))
}

func (u classAwareUnion) IsRuntime() bool { return u.a.IsRuntime() || u.b.IsRuntime() }

func (u classAwareUnion) MatchesArgs(m xaop.Method, t reflect.Type, args []any) bool {
	return (inClass(u.cfa, t) && fullMatch(u.a, m, t, args)) ||
		(inClass(u.cfb, t) && fullMatch(u.b, m, t, args))
}
