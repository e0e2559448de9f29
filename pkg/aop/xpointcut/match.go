package xpointcut

import (
	"reflect"
	"sync"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// ClassMatches 判断 Advisor 是否适用于类型 t。
// 没有切点信息的 Advisor 适用于所有类型。
func ClassMatches(a xaop.Advisor, t reflect.Type) bool {
	switch a := a.(type) {
	case xaop.IntroductionAdvisor:
		return a.ClassFilter().Matches(t)
	case xaop.PointcutAdvisor:
		return a.Pointcut().ClassFilter().Matches(t)
	default:
		return true
	}
}

// MethodMatches 判断 Advisor 是否静态适用于 t 上的方法 m。
// 引入 Advisor 只看类型过滤。
func MethodMatches(a xaop.Advisor, m xaop.Method, t reflect.Type) bool {
	switch a := a.(type) {
	case xaop.IntroductionAdvisor:
		return a.ClassFilter().Matches(t)
	case xaop.PointcutAdvisor:
		pc := a.Pointcut()
		return pc.ClassFilter().Matches(t) && pc.MethodMatcher().Matches(m, t)
	default:
		return true
	}
}

// CanApply 判断 Advisor 是否可能作用于类型 t：类型过滤通过，
// 且 t 上至少有一个声明方法或函数字段被静态匹配。
func CanApply(a xaop.Advisor, t reflect.Type) bool {
	if !ClassMatches(a, t) {
		return false
	}
	pa, ok := a.(xaop.PointcutAdvisor)
	if !ok {
		return true
	}
	mm := pa.Pointcut().MethodMatcher()
	if mm == xaop.MethodMatcherTrue {
		return true
	}
	for _, m := range xaop.MethodsOf(t) {
		if mm.Matches(m, t) {
			return true
		}
	}
	for _, m := range xaop.FuncFieldsOf(t) {
		if mm.Matches(m, t) {
			return true
		}
	}
	return false
}

// FilterAdvisors 保持原顺序，返回可能作用于 t 的候选 Advisor。
func FilterAdvisors(candidates []xaop.Advisor, t reflect.Type) []xaop.Advisor {
	out := make([]xaop.Advisor, 0, len(candidates))
	for _, a := range candidates {
		if CanApply(a, t) {
			out = append(out, a)
		}
	}
	return out
}

// MatchCache 缓存 (Advisor 槽位, 类型) 和 (Advisor 槽位, 类型, 方法) 的静态匹配结果。
//
// 槽位是 Advisor 在某个配置快照中的下标；Advisor 列表变化时应换用新的 MatchCache。
// 运行时匹配器的结果不缓存。nil *MatchCache 可用，等价于不缓存。并发安全。
type MatchCache struct {
	classes sync.Map // classKey -> bool
	methods sync.Map // methodKey -> bool
}

type classKey struct {
	slot int
	t    reflect.Type
}

type methodKey struct {
	slot  int
	t     reflect.Type
	owner reflect.Type
	name  string
	kind  xaop.MethodKind
}

// NewMatchCache 创建空缓存。
func NewMatchCache() *MatchCache { return &MatchCache{} }

// ClassMatches 返回 cf 对 t 的匹配结果。
func (c *MatchCache) ClassMatches(slot int, cf xaop.ClassFilter, t reflect.Type) bool {
	if c == nil {
		return cf.Matches(t)
	}
	key := classKey{slot: slot, t: t}
	if v, ok := c.classes.Load(key); ok {
		return v.(bool)
	}
	ok := cf.Matches(t)
	c.classes.Store(key, ok)
	return ok
}

// MethodMatches 返回 mm 对 (m, t) 的静态匹配结果。
func (c *MatchCache) MethodMatches(slot int, mm xaop.MethodMatcher, m xaop.Method, t reflect.Type) bool {
	if c == nil || mm.IsRuntime() {
		return mm.Matches(m, t)
	}
	key := methodKey{slot: slot, t: t, owner: m.Owner, name: m.Name, kind: m.Kind}
	if v, ok := c.methods.Load(key); ok {
		return v.(bool)
	}
	ok := mm.Matches(m, t)
	c.methods.Store(key, ok)
	return ok
}
