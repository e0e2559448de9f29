package xproxy

import (
	"reflect"

	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xpointcut"
)

// Link 是拦截器链上的一环。Matcher 非 nil 时该环为运行时检查的环：
// 每次调用先用实参执行 Matcher.MatchesArgs，不匹配则跳过。
type Link struct {
	Interceptor xaop.MethodInterceptor
	Matcher     xaop.MethodMatcher
}

// Chain 是有序的拦截器链，下标 0 在最外层。
type Chain []Link

// Dynamic 报告链中是否有运行时检查的环。
func (c Chain) Dynamic() bool {
	for _, l := range c {
		if l.Matcher != nil {
			return true
		}
	}
	return false
}

// BuildChain 按 advisors 的配置顺序为方法 m（目标类型 class）构建拦截器链，不重新排序。
//
//   - 引入 Advisor：类型过滤通过时贡献其全部拦截器
//   - 切点 Advisor：类型过滤和静态方法匹配都通过时贡献拦截器；
//     方法匹配器为运行时匹配器时生成运行时检查的环
//   - 其它 Advisor：总是贡献拦截器
//
// 无法适配的 Advice 返回错误。cache 可为 nil；槽位为 Advisor 在 advisors 中的下标。
// 第二个返回值报告链中是否有运行时检查的环。
func BuildChain(registry *xaop.AdapterRegistry, advisors []xaop.Advisor, m xaop.Method, class reflect.Type,
	cache *xpointcut.MatchCache) (Chain, bool, error) {
	if registry == nil {
		registry = xaop.DefaultAdapterRegistry()
	}
	chain := make(Chain, 0, len(advisors))
	dynamic := false
	for slot, a := range advisors {
		var matcher xaop.MethodMatcher
		switch a := a.(type) {
		case xaop.IntroductionAdvisor:
			if !cache.ClassMatches(slot, a.ClassFilter(), class) {
				continue
			}
		case xaop.PointcutAdvisor:
			pc := a.Pointcut()
			if !cache.ClassMatches(slot, pc.ClassFilter(), class) {
				continue
			}
			mm := pc.MethodMatcher()
			if !cache.MethodMatches(slot, mm, m, class) {
				continue
			}
			if mm.IsRuntime() {
				matcher = mm
				dynamic = true
			}
		}
		interceptors, err := registry.Interceptors(a)
		if err != nil {
			return nil, false, err
		}
		for _, ic := range interceptors {
			chain = append(chain, Link{Interceptor: ic, Matcher: matcher})
		}
	}
	return chain, dynamic, nil
}
